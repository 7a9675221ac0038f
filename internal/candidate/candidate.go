package candidate

import (
	"errors"
	"time"
)

// Candidate is an application of one person to one job.
type Candidate struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	JobID     string     `json:"job_id" gorm:"column:job_id;not null;index"`
	Name      string     `json:"name" gorm:"not null"`
	Email     string     `json:"email" gorm:"not null"`
	Phone     string     `json:"phone"`
	ResumeURL *string    `json:"resume_url,omitempty" gorm:"column:resume_url"`
	Summary   string     `json:"summary"`
	Stage     string     `json:"stage" gorm:"default:applied"`
	AIScore   *int       `json:"ai_score,omitempty" gorm:"column:ai_score"`
	AINotes   *string    `json:"ai_notes,omitempty" gorm:"column:ai_notes"`
	AppliedAt time.Time  `json:"applied_at" gorm:"column:applied_at;default:now()"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
	DecidedAt *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
}

func (Candidate) TableName() string {
	return "candidates"
}

const (
	StageApplied   = "applied"
	StageScreening = "screening"
	StageInterview = "interview"
	StageOffer     = "offer"
	StageHired     = "hired"
	StageRejected  = "rejected"
)

// stageOrder is the pipeline a candidate advances through; rejected is
// terminal from any of them.
var stageOrder = []string{StageApplied, StageScreening, StageInterview, StageOffer, StageHired}

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrStageTerminal     = errors.New("candidate is in a terminal stage")
	ErrJobNotAccepting   = errors.New("job is not accepting applications")
)

// NextStage returns the stage after the current one, or false when the
// candidate is already hired or rejected.
func (c *Candidate) NextStage() (string, bool) {
	for i, stage := range stageOrder {
		if stage == c.Stage && i < len(stageOrder)-1 {
			return stageOrder[i+1], true
		}
	}
	return "", false
}

func (c *Candidate) IsTerminal() bool {
	return c.Stage == StageHired || c.Stage == StageRejected
}
