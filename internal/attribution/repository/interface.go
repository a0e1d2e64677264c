package repository

import (
	"context"
	"time"
)

// Record is the funnel-state edge between one collector and one lead.
// At most one record exists per (collector, lead) pair.
type Record struct {
	CollectorID int64
	LeadID      int64
	Visited     bool
	Submitted   bool
	VisitedAt   time.Time
	SubmittedAt *time.Time
}

// Repository defines the persistence operations for attribution records.
type Repository interface {
	// Get returns the record for the (collector, lead) pair.
	// Returns apperr.NotFound if no record exists.
	Get(ctx context.Context, collectorID, leadID int64) (Record, error)

	// TryInsert creates the record for a first visit unless one already
	// exists. The boolean reports whether a row was actually created; on a
	// conflict the zero Record is returned and the caller re-reads.
	TryInsert(ctx context.Context, collectorID, leadID int64) (Record, bool, error)

	// TransitionSubmitted flips the record to the submitted state if and only
	// if it is not submitted yet, stamping submitted_at once. The boolean
	// reports whether this call performed the transition; when false the
	// caller re-reads to distinguish a missing record from an already
	// submitted one.
	TransitionSubmitted(ctx context.Context, collectorID, leadID int64) (Record, bool, error)
}
