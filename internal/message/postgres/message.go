package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/talentra/hiring-management/internal/message"
)

// MessageRepository implements the message.Repository interface using GORM
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) message.Repository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *message.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MessageRepository) GetByJob(ctx context.Context, jobID string, limit, offset int) ([]*message.Message, error) {
	var messages []*message.Message
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

// MarkAllRead inserts a read row for every message in the thread the user
// has not read yet, excluding their own messages.
func (r *MessageRepository) MarkAllRead(ctx context.Context, jobID, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO message_reads (message_id, user_id, read_at)
		SELECT m.id, ?, ?
		FROM messages m
		WHERE m.job_id = ?
		  AND m.author_id != ?
		  AND NOT EXISTS (
			SELECT 1 FROM message_reads mr
			WHERE mr.message_id = m.id AND mr.user_id = ?
		  )`,
		userID, time.Now(), jobID, userID, userID)

	return result.RowsAffected, result.Error
}

func (r *MessageRepository) UnreadCount(ctx context.Context, jobID, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&message.Message{}).
		Where("job_id = ?", jobID).
		Where("author_id != ?", userID).
		Where(`NOT EXISTS (
			SELECT 1 FROM message_reads mr
			WHERE mr.message_id = messages.id AND mr.user_id = ?
		)`, userID).
		Count(&count).Error
	return count, err
}
