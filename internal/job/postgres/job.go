package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/talentra/hiring-management/internal/job"
)

// JobRepository implements the job.Repository interface using GORM
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) job.Repository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*job.Job, error) {
	var j job.Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&j).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, job.ErrJobNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) GetByCompany(ctx context.Context, companyID string, limit, offset int) ([]*job.Job, error) {
	var jobs []*job.Job
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&job.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
