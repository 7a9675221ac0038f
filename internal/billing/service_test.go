package billing_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/talentra/hiring-management/internal/auth"
	"github.com/talentra/hiring-management/internal/billing"
	"github.com/talentra/hiring-management/internal/billinggateway"
	"github.com/talentra/hiring-management/internal/core/events"
)

type mockSubscriptionRepository struct {
	subscriptions map[string]*billing.Subscription
	createError   error
}

func newMockSubscriptionRepository() *mockSubscriptionRepository {
	return &mockSubscriptionRepository{subscriptions: make(map[string]*billing.Subscription)}
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, s *billing.Subscription) error {
	if m.createError != nil {
		return m.createError
	}
	m.subscriptions[s.ID] = s
	return nil
}

func (m *mockSubscriptionRepository) GetByID(ctx context.Context, id string) (*billing.Subscription, error) {
	s, ok := m.subscriptions[id]
	if !ok {
		return nil, errors.New("subscription not found")
	}
	return s, nil
}

func (m *mockSubscriptionRepository) GetCurrentByCompany(ctx context.Context, companyID string) (*billing.Subscription, error) {
	var latest *billing.Subscription
	for _, s := range m.subscriptions {
		if s.CompanyID != companyID {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, errors.New("subscription not found")
	}
	return latest, nil
}

func (m *mockSubscriptionRepository) UpdateStatus(ctx context.Context, id, status string, periodEnd *time.Time) error {
	s, ok := m.subscriptions[id]
	if !ok {
		return errors.New("subscription not found")
	}
	s.Status = status
	s.CurrentPeriodEnd = periodEnd
	return nil
}

func (m *mockSubscriptionRepository) UpdateSession(ctx context.Context, id, sessionID string) error {
	s, ok := m.subscriptions[id]
	if !ok {
		return errors.New("subscription not found")
	}
	s.CheckoutSession = &sessionID
	return nil
}

type fakeGateway struct {
	lastRequest *billinggateway.CheckoutRequest
	err         error
}

func (f *fakeGateway) CreateCheckout(req *billinggateway.CheckoutRequest) (*billinggateway.CheckoutResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastRequest = req
	return &billinggateway.CheckoutResponse{
		SessionID:   "sess-1",
		CheckoutURL: "https://billing.example.com/checkout/sess-1",
		Status:      billinggateway.SessionStatusPending,
	}, nil
}

var _ = Describe("BillingService", func() {
	var (
		repo    *mockSubscriptionRepository
		gateway *fakeGateway
		service *billing.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		repo = newMockSubscriptionRepository()
		gateway = &fakeGateway{}
		service = billing.NewService(repo, gateway, events.NewBus(logger), logger)
		ctx = context.Background()
	})

	Describe("CreateCheckout", func() {
		It("opens a pending checkout for an admin", func() {
			checkout, err := service.CreateCheckout(ctx, "c-1", auth.RoleAdmin, billing.CreateCheckoutDTO{Plan: billing.PlanGrowth})

			Expect(err).ToNot(HaveOccurred())
			Expect(checkout.Status).To(Equal(billing.StatusPending))
			Expect(checkout.CheckoutURL).ToNot(BeEmpty())
			Expect(gateway.lastRequest.Plan).To(Equal(billing.PlanGrowth))
			Expect(gateway.lastRequest.AmountCents).To(Equal(int64(19900)))
		})

		It("denies non-admin members", func() {
			_, err := service.CreateCheckout(ctx, "c-1", auth.RoleMember, billing.CreateCheckoutDTO{Plan: billing.PlanStarter})
			Expect(err).To(MatchError(billing.ErrAdminRequired))
		})

		It("rejects an unknown plan", func() {
			_, err := service.CreateCheckout(ctx, "c-1", auth.RoleAdmin, billing.CreateCheckoutDTO{Plan: "platinum"})
			Expect(err).To(MatchError(billing.ErrUnknownPlan))
		})

		It("refuses a second checkout while a subscription is active", func() {
			checkout, err := service.CreateCheckout(ctx, "c-1", auth.RoleAdmin, billing.CreateCheckoutDTO{Plan: billing.PlanStarter})
			Expect(err).ToNot(HaveOccurred())

			err = service.HandleCallback(ctx, billing.CallbackDTO{ReferenceID: checkout.SubscriptionID, Status: "activated"})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateCheckout(ctx, "c-1", auth.RoleAdmin, billing.CreateCheckoutDTO{Plan: billing.PlanGrowth})
			Expect(err).To(MatchError(billing.ErrAlreadyActive))
		})

		It("propagates gateway failures", func() {
			gateway.err = errors.New("provider unavailable")
			_, err := service.CreateCheckout(ctx, "c-1", auth.RoleAdmin, billing.CreateCheckoutDTO{Plan: billing.PlanStarter})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("HandleCallback", func() {
		var subscriptionID string

		BeforeEach(func() {
			checkout, err := service.CreateCheckout(ctx, "c-1", auth.RoleAdmin, billing.CreateCheckoutDTO{Plan: billing.PlanStarter})
			Expect(err).ToNot(HaveOccurred())
			subscriptionID = checkout.SubscriptionID
		})

		It("activates the subscription with a period end", func() {
			err := service.HandleCallback(ctx, billing.CallbackDTO{ReferenceID: subscriptionID, Status: "activated"})
			Expect(err).ToNot(HaveOccurred())

			sub, err := service.GetSubscription(ctx, "c-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(sub.Status).To(Equal(billing.StatusActive))
			Expect(sub.CurrentPeriodEnd).ToNot(BeNil())
		})

		It("cancels an active subscription", func() {
			err := service.HandleCallback(ctx, billing.CallbackDTO{ReferenceID: subscriptionID, Status: "activated"})
			Expect(err).ToNot(HaveOccurred())

			err = service.HandleCallback(ctx, billing.CallbackDTO{ReferenceID: subscriptionID, Status: "cancelled"})
			Expect(err).ToNot(HaveOccurred())

			sub, err := service.GetSubscription(ctx, "c-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(sub.Status).To(Equal(billing.StatusCancelled))
		})

		It("ignores unknown callback statuses", func() {
			err := service.HandleCallback(ctx, billing.CallbackDTO{ReferenceID: subscriptionID, Status: "snoozed"})
			Expect(err).ToNot(HaveOccurred())

			sub, err := service.GetSubscription(ctx, "c-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(sub.Status).To(Equal(billing.StatusPending))
		})

		It("maps unknown references to ErrSubscriptionNotFound", func() {
			err := service.HandleCallback(ctx, billing.CallbackDTO{ReferenceID: "missing", Status: "activated"})
			Expect(err).To(MatchError(billing.ErrSubscriptionNotFound))
		})
	})
})
