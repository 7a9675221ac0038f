package billing

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talentra/hiring-management/internal/auth"
	"github.com/talentra/hiring-management/internal/billinggateway"
	"github.com/talentra/hiring-management/internal/core/events"
)

// Repository defines the data access methods for subscriptions.
type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	GetByID(ctx context.Context, id string) (*Subscription, error)
	GetCurrentByCompany(ctx context.Context, companyID string) (*Subscription, error)
	UpdateStatus(ctx context.Context, id, status string, periodEnd *time.Time) error
	UpdateSession(ctx context.Context, id, sessionID string) error
}

// CheckoutGateway abstracts the billing provider client.
type CheckoutGateway interface {
	CreateCheckout(req *billinggateway.CheckoutRequest) (*billinggateway.CheckoutResponse, error)
}

type Service struct {
	repo     Repository
	gateway  CheckoutGateway
	eventBus *events.Bus
	logger   *slog.Logger
}

func NewService(repo Repository, gateway CheckoutGateway, eventBus *events.Bus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		gateway:  gateway,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateCheckout opens a provider checkout for the caller's company. Only
// company admins may change billing. The subscription stays pending until
// the provider callback activates it.
func (s *Service) CreateCheckout(ctx context.Context, companyID, actorRole string, dto CreateCheckoutDTO) (*CheckoutResponseDTO, error) {
	if actorRole != auth.RoleAdmin {
		s.logger.Warn("checkout denied: admin role required",
			"company_id", companyID,
			"role", actorRole)
		return nil, ErrAdminRequired
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("checkout validation failed", "error", err, "company_id", companyID)
		return nil, err
	}

	if current, err := s.repo.GetCurrentByCompany(ctx, companyID); err == nil && current.Status == StatusActive {
		s.logger.Warn("checkout denied: subscription already active",
			"company_id", companyID,
			"subscription_id", current.ID)
		return nil, ErrAlreadyActive
	}

	price, err := PlanPrice(dto.Plan)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub := &Subscription{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Plan:      dto.Plan,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		s.logger.Error("failed to create subscription", "error", err, "company_id", companyID)
		return nil, err
	}

	checkout, err := s.gateway.CreateCheckout(&billinggateway.CheckoutRequest{
		SubscriptionID: sub.ID,
		CompanyID:      companyID,
		Plan:           dto.Plan,
		AmountCents:    price,
	})
	if err != nil {
		s.logger.Error("failed to open checkout session", "error", err, "subscription_id", sub.ID)
		return nil, err
	}

	if err := s.repo.UpdateSession(ctx, sub.ID, checkout.SessionID); err != nil {
		s.logger.Error("failed to store checkout session", "error", err, "subscription_id", sub.ID)
	}

	s.logger.Info("checkout opened",
		"subscription_id", sub.ID,
		"company_id", companyID,
		"plan", dto.Plan,
		"session_id", checkout.SessionID)

	return &CheckoutResponseDTO{
		SubscriptionID: sub.ID,
		SessionID:      checkout.SessionID,
		CheckoutURL:    checkout.CheckoutURL,
		Status:         sub.Status,
	}, nil
}

// GetSubscription returns the company's current subscription.
func (s *Service) GetSubscription(ctx context.Context, companyID string) (*Subscription, error) {
	sub, err := s.repo.GetCurrentByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("failed to get subscription", "error", err, "company_id", companyID)
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

// provider statuses accepted on the callback
const (
	callbackStatusActivated = "activated"
	callbackStatusCancelled = "cancelled"
)

// HandleCallback applies a provider callback to the referenced
// subscription.
func (s *Service) HandleCallback(ctx context.Context, dto CallbackDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	sub, err := s.repo.GetByID(ctx, dto.ReferenceID)
	if err != nil {
		s.logger.Error("subscription not found for callback",
			"error", err,
			"reference_id", dto.ReferenceID)
		return ErrSubscriptionNotFound
	}

	switch dto.Status {
	case callbackStatusActivated:
		periodEnd := time.Now().AddDate(0, 1, 0)
		if err := s.repo.UpdateStatus(ctx, sub.ID, StatusActive, &periodEnd); err != nil {
			s.logger.Error("failed to activate subscription", "error", err, "subscription_id", sub.ID)
			return err
		}
		s.logger.Info("subscription activated",
			"subscription_id", sub.ID,
			"company_id", sub.CompanyID,
			"plan", sub.Plan)
		s.eventBus.Publish(context.Background(), events.NewSubscriptionActivatedEvent(sub.ID, sub.CompanyID, sub.Plan))

	case callbackStatusCancelled:
		if err := s.repo.UpdateStatus(ctx, sub.ID, StatusCancelled, nil); err != nil {
			s.logger.Error("failed to cancel subscription", "error", err, "subscription_id", sub.ID)
			return err
		}
		s.logger.Info("subscription cancelled",
			"subscription_id", sub.ID,
			"company_id", sub.CompanyID)
		s.eventBus.Publish(context.Background(), events.NewSubscriptionCancelledEvent(sub.ID, sub.CompanyID))

	default:
		s.logger.Warn("ignoring callback with unknown status",
			"subscription_id", sub.ID,
			"status", dto.Status)
	}

	return nil
}
