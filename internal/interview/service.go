package interview

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository defines the data access methods for interviews.
type Repository interface {
	Create(ctx context.Context, i *Interview) error
	GetByID(ctx context.Context, id string) (*Interview, error)
	GetByJob(ctx context.Context, jobID string) ([]*Interview, error)
	GetActiveByInterviewer(ctx context.Context, interviewerID string) ([]*Interview, error)
	UpdateStatus(ctx context.Context, id, status string, outcome *string, notes string) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Schedule books an interview slot. A slot that overlaps any non-cancelled
// interview of the same interviewer is rejected.
func (s *Service) Schedule(ctx context.Context, jobID string, dto ScheduleDTO) (*Interview, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("interview validation failed", "error", err, "job_id", jobID)
		return nil, err
	}

	existing, err := s.repo.GetActiveByInterviewer(ctx, dto.InterviewerID)
	if err != nil {
		s.logger.Error("failed to load interviewer schedule", "error", err, "interviewer_id", dto.InterviewerID)
		return nil, err
	}

	for _, other := range existing {
		if other.Overlaps(dto.StartsAt, dto.EndsAt) {
			s.logger.Warn("interview slot conflicts with existing interview",
				"interviewer_id", dto.InterviewerID,
				"conflicting_interview_id", other.ID,
				"starts_at", dto.StartsAt,
				"ends_at", dto.EndsAt)
			return nil, ErrInterviewConflict
		}
	}

	now := time.Now()
	iv := &Interview{
		ID:            uuid.New().String(),
		JobID:         jobID,
		CandidateID:   dto.CandidateID,
		InterviewerID: dto.InterviewerID,
		StartsAt:      dto.StartsAt,
		EndsAt:        dto.EndsAt,
		Status:        StatusScheduled,
		Notes:         dto.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, iv); err != nil {
		s.logger.Error("failed to create interview", "error", err, "job_id", jobID)
		return nil, err
	}

	s.logger.Info("interview scheduled",
		"interview_id", iv.ID,
		"job_id", jobID,
		"candidate_id", dto.CandidateID,
		"interviewer_id", dto.InterviewerID)

	return iv, nil
}

func (s *Service) ListForJob(ctx context.Context, jobID string) ([]*Interview, error) {
	interviews, err := s.repo.GetByJob(ctx, jobID)
	if err != nil {
		s.logger.Error("failed to list interviews", "error", err, "job_id", jobID)
		return nil, err
	}
	return interviews, nil
}

func (s *Service) Cancel(ctx context.Context, id string) error {
	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("interview not found for cancel", "error", err, "interview_id", id)
		return ErrInterviewNotFound
	}

	if iv.Status != StatusScheduled {
		s.logger.Warn("cannot cancel interview in current status",
			"interview_id", id,
			"status", iv.Status)
		return ErrNotScheduled
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled, nil, iv.Notes); err != nil {
		s.logger.Error("failed to cancel interview", "error", err, "interview_id", id)
		return err
	}

	s.logger.Info("interview cancelled", "interview_id", id)
	return nil
}

// Complete records the interviewer's recommendation.
func (s *Service) Complete(ctx context.Context, id string, dto CompleteDTO) (*Interview, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	iv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("interview not found for completion", "error", err, "interview_id", id)
		return nil, ErrInterviewNotFound
	}

	if iv.Status != StatusScheduled {
		s.logger.Warn("cannot complete interview in current status",
			"interview_id", id,
			"status", iv.Status)
		return nil, ErrNotScheduled
	}

	notes := iv.Notes
	if dto.Notes != "" {
		notes = dto.Notes
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCompleted, &dto.Outcome, notes); err != nil {
		s.logger.Error("failed to complete interview", "error", err, "interview_id", id)
		return nil, err
	}

	s.logger.Info("interview completed",
		"interview_id", id,
		"outcome", dto.Outcome)

	iv.Status = StatusCompleted
	iv.Outcome = &dto.Outcome
	iv.Notes = notes
	return iv, nil
}
