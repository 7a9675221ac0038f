package job

import (
	"errors"
	"time"
)

// Job is a posting owned by the company of the user who created it.
type Job struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	CompanyID      string    `json:"company_id" gorm:"column:company_id;not null;index"`
	CreatedBy      string    `json:"created_by" gorm:"column:created_by;not null"`
	Title          string    `json:"title" gorm:"not null"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employment_type" gorm:"column:employment_type"`
	SalaryMin      *int64    `json:"salary_min,omitempty" gorm:"column:salary_min"`
	SalaryMax      *int64    `json:"salary_max,omitempty" gorm:"column:salary_max"`
	Status         string    `json:"status" gorm:"default:draft"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Job) TableName() string {
	return "jobs"
}

const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidJobStatus = errors.New("invalid job status for this operation")
)

func (j *Job) CanOpen() bool {
	return j.Status == StatusDraft
}

func (j *Job) CanClose() bool {
	return j.Status == StatusOpen
}

// AcceptsApplications reports whether candidates may still apply.
func (j *Job) AcceptsApplications() bool {
	return j.Status == StatusOpen
}
