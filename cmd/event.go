package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Identity event commands",
	Long:  `Inspect identity event types and publish sample events through the audit log`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List identity event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.IdentityEventTypes {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample event",
	Long:  `Publish a sample identity event to a local bus wired to the audit log, to check log formatting and routing`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(cmd.Context(), args[0])
	},
}

var eventSubject string

func publishSampleEvent(ctx context.Context, eventType string) error {
	if !slices.Contains(events.IdentityEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q, see 'event list'", eventType)
	}
	lg := logger.LoggerWrapper()

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	event := sampleEvent(eventType, eventSubject)
	lg.Info("publishing sample event", "event_type", eventType, "event_id", event.EventID())
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func sampleEvent(eventType, subject string) events.Event {
	switch eventType {
	case events.EventTypeUserCreated:
		return events.NewUserCreatedEvent(subject, "sample", "sample@example.com")
	case events.EventTypeUserDeleted:
		return events.NewUserDeletedEvent(subject, "sample")
	case events.EventTypeUserStatusChanged:
		return events.NewUserStatusChangedEvent(subject, "sample", "inactive", "active")
	case events.EventTypeUserRoleAssigned, events.EventTypeUserRoleUpdated, events.EventTypeUserRoleRemoved:
		return events.NewUserRoleEvent(eventType, subject, "sample-role", "")
	default:
		return events.NewRolePermissionEvent(eventType, "sample-role", "sample:permission", "")
	}
}

func init() {
	publishEventCmd.Flags().StringVar(&eventSubject, "subject", "sample-user", "user id carried by the sample event")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
