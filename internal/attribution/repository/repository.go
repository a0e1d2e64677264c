package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"collector_backend/platform/apperr"
	"collector_backend/platform/db"
)

const recordNotFoundMessage = "attribution record not found"

// Repo implements the attribution ledger repository.
type Repo struct {
	pool db.Querier
}

// New creates a new attribution repository.
func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Get retrieves the record for the (collector, lead) pair.
func (r *Repo) Get(ctx context.Context, collectorID, leadID int64) (Record, error) {
	query := `
		SELECT collector_id, lead_id, visited, submitted, visited_at, submitted_at
		FROM attribution_records
		WHERE collector_id = $1 AND lead_id = $2`

	var rec Record
	if err := r.pool.QueryRow(ctx, query, collectorID, leadID).Scan(
		&rec.CollectorID, &rec.LeadID, &rec.Visited, &rec.Submitted, &rec.VisitedAt, &rec.SubmittedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, apperr.NotFound(recordNotFoundMessage)
		}
		return Record{}, fmt.Errorf("get attribution record: %w", err)
	}

	if err := checkInvariant(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// TryInsert creates the record for a first visit. The composite primary key
// arbitrates concurrent first visits for the same pair; the loser sees
// created=false and re-reads the winner's row.
func (r *Repo) TryInsert(ctx context.Context, collectorID, leadID int64) (Record, bool, error) {
	query := `
		INSERT INTO attribution_records (collector_id, lead_id, visited, submitted, submitted_at)
		VALUES ($1, $2, TRUE, FALSE, NULL)
		ON CONFLICT (collector_id, lead_id) DO NOTHING
		RETURNING collector_id, lead_id, visited, submitted, visited_at, submitted_at`

	var rec Record
	if err := r.pool.QueryRow(ctx, query, collectorID, leadID).Scan(
		&rec.CollectorID, &rec.LeadID, &rec.Visited, &rec.Submitted, &rec.VisitedAt, &rec.SubmittedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("insert attribution record: %w", err)
	}
	return rec, true, nil
}

// TransitionSubmitted performs the one-way visited->submitted transition as a
// single conditional update, so concurrent duplicate submissions cannot
// double-stamp submitted_at.
func (r *Repo) TransitionSubmitted(ctx context.Context, collectorID, leadID int64) (Record, bool, error) {
	query := `
		UPDATE attribution_records
		SET submitted = TRUE, submitted_at = now()
		WHERE collector_id = $1 AND lead_id = $2 AND NOT submitted
		RETURNING collector_id, lead_id, visited, submitted, visited_at, submitted_at`

	var rec Record
	if err := r.pool.QueryRow(ctx, query, collectorID, leadID).Scan(
		&rec.CollectorID, &rec.LeadID, &rec.Visited, &rec.Submitted, &rec.VisitedAt, &rec.SubmittedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("transition attribution record: %w", err)
	}

	if err := checkInvariant(rec); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// checkInvariant guards the submitted/submitted_at coupling. A violation can
// only come from a code or migration defect, never from user input.
func checkInvariant(rec Record) error {
	if rec.Submitted != (rec.SubmittedAt != nil) {
		return apperr.Internal(fmt.Sprintf(
			"attribution record (%d,%d) violates submitted/submitted_at invariant",
			rec.CollectorID, rec.LeadID,
		))
	}
	return nil
}
