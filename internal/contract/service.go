package contract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talentra/hiring-management/internal/candidate"
	"github.com/talentra/hiring-management/internal/core/events"
	"github.com/talentra/hiring-management/internal/mailer"
)

// Repository defines the data access methods for contracts.
type Repository interface {
	Create(ctx context.Context, c *Contract) error
	GetByID(ctx context.Context, id string) (*Contract, error)
	GetByJob(ctx context.Context, jobID string) ([]*Contract, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkSigned(ctx context.Context, id, signerName string, signedAt time.Time) error
}

// CandidateReader exposes the candidate lookup the send flow needs.
type CandidateReader interface {
	GetCandidate(ctx context.Context, id string) (*candidate.Candidate, error)
}

type Service struct {
	repo       Repository
	candidates CandidateReader
	mail       mailer.Mailer
	eventBus   *events.Bus
	logger     *slog.Logger
}

func NewService(repo Repository, candidates CandidateReader, mail mailer.Mailer, eventBus *events.Bus, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		candidates: candidates,
		mail:       mail,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Create renders the offer template into a draft contract. Every
// placeholder in the template must have a value.
func (s *Service) Create(ctx context.Context, jobID, creatorID string, dto CreateContractDTO) (*Contract, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("contract validation failed", "error", err, "job_id", jobID)
		return nil, err
	}

	if _, err := s.candidates.GetCandidate(ctx, dto.CandidateID); err != nil {
		s.logger.Error("candidate not found for contract", "error", err, "candidate_id", dto.CandidateID)
		return nil, candidate.ErrCandidateNotFound
	}

	body, err := RenderTemplate(dto.Template, dto.Values)
	if err != nil {
		s.logger.Error("contract template rendering failed", "error", err, "job_id", jobID)
		return nil, err
	}

	now := time.Now()
	c := &Contract{
		ID:          uuid.New().String(),
		JobID:       jobID,
		CandidateID: dto.CandidateID,
		Title:       dto.Title,
		Body:        body,
		Status:      StatusDraft,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create contract", "error", err, "job_id", jobID)
		return nil, err
	}

	s.logger.Info("contract created",
		"contract_id", c.ID,
		"job_id", jobID,
		"candidate_id", dto.CandidateID)

	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get contract", "error", err, "contract_id", id)
		return nil, ErrContractNotFound
	}
	return c, nil
}

func (s *Service) ListForJob(ctx context.Context, jobID string) ([]*Contract, error) {
	contracts, err := s.repo.GetByJob(ctx, jobID)
	if err != nil {
		s.logger.Error("failed to list contracts", "error", err, "job_id", jobID)
		return nil, err
	}
	return contracts, nil
}

// Send transitions draft -> sent and emails the offer to the candidate.
func (s *Service) Send(ctx context.Context, id string) (*Contract, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("contract not found for send", "error", err, "contract_id", id)
		return nil, ErrContractNotFound
	}

	if c.Status != StatusDraft {
		s.logger.Warn("cannot send contract in current status",
			"contract_id", id,
			"status", c.Status)
		return nil, ErrContractNotDraft
	}

	cand, err := s.candidates.GetCandidate(ctx, c.CandidateID)
	if err != nil {
		s.logger.Error("candidate not found for contract send", "error", err, "candidate_id", c.CandidateID)
		return nil, candidate.ErrCandidateNotFound
	}

	now := time.Now()
	if err := s.repo.MarkSent(ctx, id, now); err != nil {
		s.logger.Error("failed to mark contract sent", "error", err, "contract_id", id)
		return nil, err
	}

	err = s.mail.Send(ctx, mailer.Email{
		To:      cand.Email,
		Subject: c.Title,
		HTML:    fmt.Sprintf("<p>Hi %s,</p>%s", cand.Name, c.Body),
	})
	if err != nil {
		// status already moved; the offer can be re-delivered manually
		s.logger.Error("failed to email contract", "error", err, "contract_id", id)
	}

	s.logger.Info("contract sent",
		"contract_id", id,
		"candidate_id", c.CandidateID)

	c.Status = StatusSent
	c.SentAt = &now
	return c, nil
}

// Sign applies an e-signature callback: sent -> signed. Signing anything
// but a sent contract is a conflict.
func (s *Service) Sign(ctx context.Context, id string, dto SignContractDTO) (*Contract, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("contract not found for signing", "error", err, "contract_id", id)
		return nil, ErrContractNotFound
	}

	if c.Status != StatusSent {
		s.logger.Warn("cannot sign contract in current status",
			"contract_id", id,
			"status", c.Status)
		return nil, ErrContractNotSent
	}

	now := time.Now()
	if err := s.repo.MarkSigned(ctx, id, dto.SignerName, now); err != nil {
		s.logger.Error("failed to mark contract signed", "error", err, "contract_id", id)
		return nil, err
	}

	s.logger.Info("contract signed",
		"contract_id", id,
		"signer_name", dto.SignerName)

	s.eventBus.Publish(context.Background(), events.NewContractSignedEvent(c.ID, c.JobID, c.CandidateID, dto.SignerName))

	c.Status = StatusSigned
	c.SignerName = &dto.SignerName
	c.SignedAt = &now
	return c, nil
}
