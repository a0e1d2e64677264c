// Package repository provides aggregate queries over attribution records.
package repository

import (
	"context"
	"fmt"
	"time"

	"collector_backend/platform/db"
)

// Totals are the funnel counters for one collector over a window.
type Totals struct {
	Visits      int64
	Submissions int64
}

// Repository defines the analytics read operations.
type Repository interface {
	// CollectorTotals counts visits and submissions for the collector since
	// the given instant. Both counters come from one snapshot.
	CollectorTotals(ctx context.Context, collectorID int64, since time.Time) (Totals, error)
}

// Repo implements Repository backed by PostgreSQL.
type Repo struct {
	pool db.Querier
}

// New creates a new analytics repository.
func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

// CollectorTotals runs a single aggregate so visits and submissions are
// counted from the same snapshot; a submission is never counted without
// its visit.
func (r *Repo) CollectorTotals(ctx context.Context, collectorID int64, since time.Time) (Totals, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE visited AND visited_at >= $2),
			COUNT(*) FILTER (WHERE submitted AND submitted_at >= $2)
		FROM attribution_records
		WHERE collector_id = $1`

	var totals Totals
	err := r.pool.QueryRow(ctx, query, collectorID, since).Scan(&totals.Visits, &totals.Submissions)
	if err != nil {
		return Totals{}, fmt.Errorf("count collector totals: %w", err)
	}
	return totals, nil
}

var _ Repository = (*Repo)(nil)
