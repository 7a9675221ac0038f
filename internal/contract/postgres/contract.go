package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/talentra/hiring-management/internal/contract"
)

// ContractRepository implements the contract.Repository interface using GORM
type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) contract.Repository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, c *contract.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) GetByID(ctx context.Context, id string) (*contract.Contract, error) {
	var c contract.Contract
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, contract.ErrContractNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ContractRepository) GetByJob(ctx context.Context, jobID string) ([]*contract.Contract, error) {
	var contracts []*contract.Contract
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *ContractRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	return r.db.WithContext(ctx).Model(&contract.Contract{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     contract.StatusSent,
			"sent_at":    sentAt,
			"updated_at": time.Now(),
		}).Error
}

func (r *ContractRepository) MarkSigned(ctx context.Context, id, signerName string, signedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&contract.Contract{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      contract.StatusSigned,
			"signer_name": signerName,
			"signed_at":   signedAt,
			"updated_at":  time.Now(),
		}).Error
}
