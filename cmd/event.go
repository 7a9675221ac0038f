package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/talentra/hiring-management/internal/core/events"
	"github.com/talentra/hiring-management/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events, monitor event bus, inspect handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus for testing and debugging`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

func publishTestEvent(eventType string) {
	log := logger.LoggerWrapper()

	eventBus := events.NewBus(log)

	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		log.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt())
		return nil
	})

	testEvent := events.BaseEvent{
		ID:        fmt.Sprintf("test-%s", uuid.New().String()),
		Type:      eventType,
		Timestamp: time.Now(),
	}

	log.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	eventBus.Publish(context.Background(), testEvent)

	time.Sleep(100 * time.Millisecond)
	log.Info("test event published")
}

// registerEventHandlers attaches the audit handlers the server runs with.
// Heavy side effects (mail, evaluation) live in the services; these handlers
// only record the lifecycle trail.
func registerEventHandlers(bus *events.Bus, log *slog.Logger) {
	bus.Subscribe(events.EventTypeCandidateApplied, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(*events.CandidateAppliedEvent); ok {
			log.Info("candidate applied", "candidate_id", e.CandidateID, "job_id", e.JobID)
		}
		return nil
	})

	bus.Subscribe(events.EventTypeCandidateEvaluated, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(*events.CandidateEvaluatedEvent); ok {
			log.Info("candidate evaluated", "candidate_id", e.CandidateID, "job_id", e.JobID, "score", e.Score)
		}
		return nil
	})

	bus.Subscribe(events.EventTypeContractSigned, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(*events.ContractSignedEvent); ok {
			log.Info("contract signed", "contract_id", e.ContractID, "candidate_id", e.CandidateID, "signer", e.SignerName)
		}
		return nil
	})

	bus.Subscribe(events.EventTypeSubscriptionActivated, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(*events.SubscriptionActivatedEvent); ok {
			log.Info("subscription activated", "subscription_id", e.SubscriptionID, "company_id", e.CompanyID, "plan", e.Plan)
		}
		return nil
	})

	bus.Subscribe(events.EventTypeSubscriptionCancelled, func(ctx context.Context, event events.Event) error {
		if e, ok := event.(*events.SubscriptionCancelledEvent); ok {
			log.Info("subscription cancelled", "subscription_id", e.SubscriptionID, "company_id", e.CompanyID)
		}
		return nil
	})
}

func init() {
	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
