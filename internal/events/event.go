// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"collector_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Attribution Domain Events
// =============================================================================

// LeadSubmitted is published when a lead completes the funnel for a collector,
// i.e. the attribution record transitions to the submitted state.
type LeadSubmitted struct {
	BaseEvent
	CollectorID   int64     `json:"collectorId"`
	CollectorName string    `json:"collectorName"`
	LeadID        int64     `json:"leadId"`
	LeadVKID      string    `json:"leadVkId"`
	LeadFullName  string    `json:"leadFullName"`
	LeadPhone     string    `json:"leadPhone,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

func (e LeadSubmitted) EventName() string { return "attribution.lead.submitted" }
