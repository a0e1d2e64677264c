// Package notification delivers admin alerts for funnel events.
package notification

import (
	"context"
	"fmt"
	"strings"

	"collector_backend/internal/events"
	"collector_backend/internal/notification/telegram"
	"collector_backend/platform/logger"
)

// Module subscribes to domain events and fans them out to admin channels.
// It registers no HTTP routes.
type Module struct {
	telegram *telegram.Client
	log      *logger.Logger
}

// NewModule creates the notification module and subscribes it to the bus.
func NewModule(bus events.Bus, tg *telegram.Client, log *logger.Logger) *Module {
	m := &Module{telegram: tg, log: log}

	bus.Subscribe(events.LeadSubmitted{}.EventName(), events.HandlerFunc(m.onLeadSubmitted))
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

func (m *Module) onLeadSubmitted(ctx context.Context, event events.Event) error {
	submitted, ok := event.(events.LeadSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	m.telegram.Broadcast(ctx, formatLeadSubmitted(submitted))
	return nil
}

func formatLeadSubmitted(e events.LeadSubmitted) string {
	var b strings.Builder
	b.WriteString("New lead submission\n")
	if e.CollectorName != "" {
		fmt.Fprintf(&b, "Collector: %s (#%d)\n", e.CollectorName, e.CollectorID)
	} else {
		fmt.Fprintf(&b, "Collector: #%d\n", e.CollectorID)
	}
	fmt.Fprintf(&b, "Lead: %s (vk id %s)\n", e.LeadFullName, e.LeadVKID)
	if e.LeadPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", e.LeadPhone)
	}
	fmt.Fprintf(&b, "Submitted at: %s", e.SubmittedAt.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}
