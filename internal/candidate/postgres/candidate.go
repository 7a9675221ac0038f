package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/talentra/hiring-management/internal/candidate"
)

// CandidateRepository implements the candidate.Repository interface using GORM
type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) candidate.Repository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*candidate.Candidate, error) {
	var c candidate.Candidate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, candidate.ErrCandidateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CandidateRepository) GetByJob(ctx context.Context, jobID string, limit, offset int) ([]*candidate.Candidate, error) {
	var candidates []*candidate.Candidate
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("applied_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&candidates).Error
	return candidates, err
}

func (r *CandidateRepository) UpdateStage(ctx context.Context, id, stage string, decidedAt *time.Time) error {
	updates := map[string]interface{}{
		"stage":      stage,
		"updated_at": time.Now(),
	}
	if decidedAt != nil {
		updates["decided_at"] = *decidedAt
	}

	return r.db.WithContext(ctx).Model(&candidate.Candidate{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *CandidateRepository) UpdateEvaluation(ctx context.Context, id string, score int, notes string) error {
	return r.db.WithContext(ctx).Model(&candidate.Candidate{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_score":   score,
			"ai_notes":   notes,
			"updated_at": time.Now(),
		}).Error
}
