package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository defines the data access methods for jobs.
type Repository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	GetByCompany(ctx context.Context, companyID string, limit, offset int) ([]*Job, error)
	UpdateStatus(ctx context.Context, id, status string) error
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

// CreateJob posts a new job draft. The creator's company becomes the
// owning company.
func (s *Service) CreateJob(ctx context.Context, creatorID, companyID string, dto CreateJobDTO) (*Job, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("job validation failed", "error", err, "user_id", creatorID)
		return nil, err
	}

	now := time.Now()
	job := &Job{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		CreatedBy:      creatorID,
		Title:          dto.Title,
		Description:    dto.Description,
		Location:       dto.Location,
		EmploymentType: dto.EmploymentType,
		SalaryMin:      dto.SalaryMin,
		SalaryMax:      dto.SalaryMax,
		Status:         StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		s.logger.Error("failed to create job", "error", err, "user_id", creatorID)
		return nil, err
	}

	s.logger.Info("job created",
		"job_id", job.ID,
		"company_id", companyID,
		"created_by", creatorID,
		"title", dto.Title)

	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get job", "error", err, "job_id", id)
		return nil, ErrJobNotFound
	}
	return job, nil
}

// ListCompanyJobs returns the postings of the caller's company, newest
// first.
func (s *Service) ListCompanyJobs(ctx context.Context, companyID string, limit, offset int) ([]*Job, error) {
	jobs, err := s.repo.GetByCompany(ctx, companyID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list company jobs", "error", err, "company_id", companyID)
		return nil, err
	}
	return jobs, nil
}

// UpdateStatus moves a job through draft -> open -> closed.
func (s *Service) UpdateStatus(ctx context.Context, id string, dto UpdateJobStatusDTO) (*Job, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("job not found for status update", "error", err, "job_id", id)
		return nil, ErrJobNotFound
	}

	switch dto.Status {
	case StatusOpen:
		if !job.CanOpen() {
			s.logger.Warn("cannot open job in current status", "job_id", id, "current_status", job.Status)
			return nil, ErrInvalidJobStatus
		}
	case StatusClosed:
		if !job.CanClose() {
			s.logger.Warn("cannot close job in current status", "job_id", id, "current_status", job.Status)
			return nil, ErrInvalidJobStatus
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, dto.Status); err != nil {
		s.logger.Error("failed to update job status", "error", err, "job_id", id)
		return nil, err
	}

	job.Status = dto.Status
	job.UpdatedAt = time.Now()

	s.logger.Info("job status updated", "job_id", id, "status", dto.Status)

	return job, nil
}
