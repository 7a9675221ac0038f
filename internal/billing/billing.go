package billing

import (
	"errors"
	"time"
)

// Subscription is a company's billing state.
type Subscription struct {
	ID               string     `json:"id" gorm:"primaryKey"`
	CompanyID        string     `json:"company_id" gorm:"column:company_id;not null;index"`
	Plan             string     `json:"plan" gorm:"not null"`
	Status           string     `json:"status" gorm:"default:pending"`
	CheckoutSession  *string    `json:"checkout_session,omitempty" gorm:"column:checkout_session"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty" gorm:"column:current_period_end"`
	CreatedAt        time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

const (
	PlanStarter    = "starter"
	PlanGrowth     = "growth"
	PlanEnterprise = "enterprise"
)

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// planPrices are monthly prices in cents.
var planPrices = map[string]int64{
	PlanStarter:    4900,
	PlanGrowth:     19900,
	PlanEnterprise: 49900,
}

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrUnknownPlan          = errors.New("unknown plan")
	ErrAdminRequired        = errors.New("company admin role required")
	ErrAlreadyActive        = errors.New("company already has an active subscription")
)

// PlanPrice returns the monthly price in cents for a plan.
func PlanPrice(plan string) (int64, error) {
	price, ok := planPrices[plan]
	if !ok {
		return 0, ErrUnknownPlan
	}
	return price, nil
}
