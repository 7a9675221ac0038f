package message

import (
	"errors"
	"time"
)

// Message is one entry in a job's team discussion thread.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	JobID     string    `json:"job_id" gorm:"column:job_id;not null;index"`
	AuthorID  string    `json:"author_id" gorm:"column:author_id;not null"`
	Body      string    `json:"body" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageRead marks one message as read by one user.
type MessageRead struct {
	MessageID string    `json:"message_id" gorm:"column:message_id;primaryKey"`
	UserID    string    `json:"user_id" gorm:"column:user_id;primaryKey"`
	ReadAt    time.Time `json:"read_at" gorm:"column:read_at"`
}

func (MessageRead) TableName() string {
	return "message_reads"
}

var ErrEmptyMessage = errors.New("message body is required")

// PostMessageDTO is the request payload for posting to a thread.
type PostMessageDTO struct {
	Body string `json:"body"`
}

func (dto PostMessageDTO) Validate() error {
	if dto.Body == "" {
		return ErrEmptyMessage
	}
	if len(dto.Body) > 10000 {
		return errors.New("message body must be less than 10000 characters")
	}
	return nil
}
