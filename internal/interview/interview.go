package interview

import (
	"errors"
	"time"
)

// Interview is a scheduled conversation between one interviewer and one
// candidate for a job.
type Interview struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	JobID         string    `json:"job_id" gorm:"column:job_id;not null;index"`
	CandidateID   string    `json:"candidate_id" gorm:"column:candidate_id;not null"`
	InterviewerID string    `json:"interviewer_id" gorm:"column:interviewer_id;not null;index"`
	StartsAt      time.Time `json:"starts_at" gorm:"column:starts_at;not null"`
	EndsAt        time.Time `json:"ends_at" gorm:"column:ends_at;not null"`
	Status        string    `json:"status" gorm:"default:scheduled"`
	Outcome       *string   `json:"outcome,omitempty"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Interview) TableName() string {
	return "interviews"
}

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	OutcomeAdvance = "advance"
	OutcomeReject  = "reject"
	OutcomeHold    = "hold"
)

var (
	ErrInterviewNotFound = errors.New("interview not found")
	ErrInterviewConflict = errors.New("interviewer has an overlapping interview")
	ErrNotScheduled      = errors.New("interview is not in scheduled status")
)

// Overlaps reports whether the interview's time range intersects [start,
// end). Back-to-back slots do not overlap.
func (i *Interview) Overlaps(start, end time.Time) bool {
	return i.StartsAt.Before(end) && start.Before(i.EndsAt)
}
