package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/talentra/hiring-management/internal/interview"
)

// InterviewRepository implements the interview.Repository interface using GORM
type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) interview.Repository {
	return &InterviewRepository{db: db}
}

func (r *InterviewRepository) Create(ctx context.Context, i *interview.Interview) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *InterviewRepository) GetByID(ctx context.Context, id string) (*interview.Interview, error) {
	var i interview.Interview
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, interview.ErrInterviewNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *InterviewRepository) GetByJob(ctx context.Context, jobID string) ([]*interview.Interview, error) {
	var interviews []*interview.Interview
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("starts_at ASC").
		Find(&interviews).Error
	return interviews, err
}

// GetActiveByInterviewer returns the scheduled interviews of one
// interviewer; cancelled and completed slots do not block new bookings.
func (r *InterviewRepository) GetActiveByInterviewer(ctx context.Context, interviewerID string) ([]*interview.Interview, error) {
	var interviews []*interview.Interview
	err := r.db.WithContext(ctx).
		Where("interviewer_id = ? AND status = ?", interviewerID, interview.StatusScheduled).
		Find(&interviews).Error
	return interviews, err
}

func (r *InterviewRepository) UpdateStatus(ctx context.Context, id, status string, outcome *string, notes string) error {
	updates := map[string]interface{}{
		"status":     status,
		"notes":      notes,
		"updated_at": time.Now(),
	}
	if outcome != nil {
		updates["outcome"] = *outcome
	}

	return r.db.WithContext(ctx).Model(&interview.Interview{}).
		Where("id = ?", id).
		Updates(updates).Error
}
