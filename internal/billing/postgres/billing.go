package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/talentra/hiring-management/internal/billing"
)

// SubscriptionRepository implements the billing.Repository interface using GORM
type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) billing.Repository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *billing.Subscription) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id string) (*billing.Subscription, error) {
	var s billing.Subscription
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, billing.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetCurrentByCompany returns the company's newest subscription.
func (r *SubscriptionRepository) GetCurrentByCompany(ctx context.Context, companyID string) (*billing.Subscription, error) {
	var s billing.Subscription
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, billing.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id, status string, periodEnd *time.Time) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if periodEnd != nil {
		updates["current_period_end"] = *periodEnd
	}

	return r.db.WithContext(ctx).Model(&billing.Subscription{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *SubscriptionRepository) UpdateSession(ctx context.Context, id, sessionID string) error {
	return r.db.WithContext(ctx).Model(&billing.Subscription{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"checkout_session": sessionID,
			"updated_at":       time.Now(),
		}).Error
}
