package message

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository defines the data access methods for messages and read
// tracking.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByJob(ctx context.Context, jobID string, limit, offset int) ([]*Message, error)
	MarkAllRead(ctx context.Context, jobID, userID string) (int64, error)
	UnreadCount(ctx context.Context, jobID, userID string) (int64, error)
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

func (s *Service) Post(ctx context.Context, jobID, authorID string, dto PostMessageDTO) (*Message, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("message validation failed", "error", err, "job_id", jobID)
		return nil, err
	}

	m := &Message{
		ID:        uuid.New().String(),
		JobID:     jobID,
		AuthorID:  authorID,
		Body:      dto.Body,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("failed to create message", "error", err, "job_id", jobID)
		return nil, err
	}

	s.logger.Info("message posted",
		"message_id", m.ID,
		"job_id", jobID,
		"author_id", authorID)

	return m, nil
}

func (s *Service) ListForJob(ctx context.Context, jobID string, limit, offset int) ([]*Message, error) {
	messages, err := s.repo.GetByJob(ctx, jobID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list messages", "error", err, "job_id", jobID)
		return nil, err
	}
	return messages, nil
}

// MarkRead marks every unread message in the thread as read for the
// reader and returns how many rows were affected.
func (s *Service) MarkRead(ctx context.Context, jobID, userID string) (int64, error) {
	marked, err := s.repo.MarkAllRead(ctx, jobID, userID)
	if err != nil {
		s.logger.Error("failed to mark messages read", "error", err, "job_id", jobID, "user_id", userID)
		return 0, err
	}

	s.logger.Info("messages marked read",
		"job_id", jobID,
		"user_id", userID,
		"marked", marked)

	return marked, nil
}

// UnreadCount counts the reader's unread messages in the thread; the
// reader's own messages never count as unread.
func (s *Service) UnreadCount(ctx context.Context, jobID, userID string) (int64, error) {
	count, err := s.repo.UnreadCount(ctx, jobID, userID)
	if err != nil {
		s.logger.Error("failed to count unread messages", "error", err, "job_id", jobID, "user_id", userID)
		return 0, err
	}
	return count, nil
}
