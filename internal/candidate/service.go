package candidate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talentra/hiring-management/internal"
	"github.com/talentra/hiring-management/internal/ai"
	"github.com/talentra/hiring-management/internal/core/events"
	"github.com/talentra/hiring-management/internal/job"
	"github.com/talentra/hiring-management/internal/mailer"
)

// Repository defines the data access methods for candidates.
type Repository interface {
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id string) (*Candidate, error)
	GetByJob(ctx context.Context, jobID string, limit, offset int) ([]*Candidate, error)
	UpdateStage(ctx context.Context, id, stage string, decidedAt *time.Time) error
	UpdateEvaluation(ctx context.Context, id string, score int, notes string) error
}

// JobReader exposes the job lookup the application flow needs.
type JobReader interface {
	GetJob(ctx context.Context, id string) (*job.Job, error)
}

type Service struct {
	repo        Repository
	jobs        JobReader
	evaluator   ai.Evaluator
	mail        mailer.Mailer
	eventBus    *events.Bus
	logger      *slog.Logger
	evalTimeout time.Duration
}

func NewService(repo Repository, jobs JobReader, evaluator ai.Evaluator, mail mailer.Mailer, eventBus *events.Bus, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		jobs:        jobs,
		evaluator:   evaluator,
		mail:        mail,
		eventBus:    eventBus,
		logger:      logger,
		evalTimeout: 60 * time.Second,
	}
}

// Apply records a public application to an open job and kicks off the
// screening evaluation in the background. The evaluation is advisory: when
// it fails the candidate simply stays unscored.
func (s *Service) Apply(ctx context.Context, jobID string, dto ApplyDTO) (*Candidate, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("application validation failed", "error", err, "job_id", jobID)
		return nil, err
	}

	posting, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		s.logger.Error("job not found for application", "error", err, "job_id", jobID)
		return nil, job.ErrJobNotFound
	}

	if !posting.AcceptsApplications() {
		s.logger.Warn("application to non-open job rejected", "job_id", jobID, "job_status", posting.Status)
		return nil, ErrJobNotAccepting
	}

	now := time.Now()
	cand := &Candidate{
		ID:        uuid.New().String(),
		JobID:     jobID,
		Name:      dto.Name,
		Email:     dto.Email,
		Phone:     dto.Phone,
		ResumeURL: dto.ResumeURL,
		Summary:   dto.Summary,
		Stage:     StageApplied,
		AppliedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, cand); err != nil {
		s.logger.Error("failed to create candidate", "error", err, "job_id", jobID)
		return nil, err
	}

	s.logger.Info("candidate applied",
		"candidate_id", cand.ID,
		"job_id", jobID,
		"email", dto.Email)

	s.eventBus.Publish(context.Background(), events.NewCandidateAppliedEvent(cand.ID, jobID, cand.Email))

	if s.evaluator != nil && cand.Summary != "" {
		go s.evaluateAsync(cand.ID, jobID, posting.Description, cand.Summary)
	}

	return cand, nil
}

func (s *Service) evaluateAsync(candidateID, jobID, jobDescription, summary string) {
	ctx, cancel := internal.WithTimeout(context.Background(), s.evalTimeout)
	defer cancel()

	eval, err := s.evaluator.Evaluate(ctx, jobDescription, summary)
	if err != nil {
		s.logger.Error("candidate screening failed, leaving unscored",
			"error", err,
			"candidate_id", candidateID)
		return
	}

	if err := s.repo.UpdateEvaluation(ctx, candidateID, eval.Score, eval.Rationale); err != nil {
		s.logger.Error("failed to store candidate evaluation",
			"error", err,
			"candidate_id", candidateID)
		return
	}

	s.logger.Info("candidate screened",
		"candidate_id", candidateID,
		"score", eval.Score)

	s.eventBus.Publish(context.Background(), events.NewCandidateEvaluatedEvent(candidateID, jobID, eval.Score))
}

func (s *Service) GetCandidate(ctx context.Context, id string) (*Candidate, error) {
	cand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get candidate", "error", err, "candidate_id", id)
		return nil, ErrCandidateNotFound
	}
	return cand, nil
}

func (s *Service) ListForJob(ctx context.Context, jobID string, limit, offset int) ([]*Candidate, error) {
	candidates, err := s.repo.GetByJob(ctx, jobID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list candidates", "error", err, "job_id", jobID)
		return nil, err
	}
	return candidates, nil
}

// Advance moves a candidate to the next pipeline stage.
func (s *Service) Advance(ctx context.Context, id string) (*Candidate, error) {
	cand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("candidate not found for advance", "error", err, "candidate_id", id)
		return nil, ErrCandidateNotFound
	}

	next, ok := cand.NextStage()
	if !ok {
		s.logger.Warn("cannot advance candidate in terminal stage",
			"candidate_id", id,
			"stage", cand.Stage)
		return nil, ErrStageTerminal
	}

	var decidedAt *time.Time
	if next == StageHired {
		now := time.Now()
		decidedAt = &now
	}

	if err := s.repo.UpdateStage(ctx, id, next, decidedAt); err != nil {
		s.logger.Error("failed to advance candidate", "error", err, "candidate_id", id)
		return nil, err
	}

	s.logger.Info("candidate advanced",
		"candidate_id", id,
		"from_stage", cand.Stage,
		"to_stage", next)

	cand.Stage = next
	cand.DecidedAt = decidedAt
	return cand, nil
}

// Reject moves a candidate to the rejected stage and emails them the
// decision. The notice is best-effort.
func (s *Service) Reject(ctx context.Context, id string, dto RejectCandidateDTO) (*Candidate, error) {
	cand, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("candidate not found for rejection", "error", err, "candidate_id", id)
		return nil, ErrCandidateNotFound
	}

	if cand.IsTerminal() {
		s.logger.Warn("cannot reject candidate in terminal stage",
			"candidate_id", id,
			"stage", cand.Stage)
		return nil, ErrStageTerminal
	}

	now := time.Now()
	if err := s.repo.UpdateStage(ctx, id, StageRejected, &now); err != nil {
		s.logger.Error("failed to reject candidate", "error", err, "candidate_id", id)
		return nil, err
	}

	s.logger.Info("candidate rejected", "candidate_id", id, "reason", dto.Reason)

	go s.sendRejectionNotice(cand, dto.Reason)

	cand.Stage = StageRejected
	cand.DecidedAt = &now
	return cand, nil
}

func (s *Service) sendRejectionNotice(cand *Candidate, reason string) {
	ctx, cancel := internal.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	body := fmt.Sprintf("<p>Hi %s,</p><p>Thank you for your application. We have decided not to move forward at this time.</p>", cand.Name)
	if reason != "" {
		body += fmt.Sprintf("<p>%s</p>", reason)
	}

	err := s.mail.Send(ctx, mailer.Email{
		To:      cand.Email,
		Subject: "Update on your application",
		HTML:    body,
	})
	if err != nil {
		s.logger.Error("failed to send rejection notice",
			"error", err,
			"candidate_id", cand.ID)
	}
}
