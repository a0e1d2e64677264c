package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"collector_backend/platform/apperr"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func recordRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"collector_id", "lead_id", "visited", "submitted", "visited_at", "submitted_at",
	})
}

func TestGetMapsNoRowsToNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(`SELECT collector_id, lead_id`).
		WithArgs(int64(1), int64(7)).
		WillReturnError(pgx.ErrNoRows)

	_, err := New(pool).Get(context.Background(), 1, 7)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetRejectsInvariantViolation(t *testing.T) {
	pool := newMockPool(t)
	// submitted without a timestamp can only come from a schema defect.
	pool.ExpectQuery(`SELECT collector_id, lead_id`).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(recordRows().AddRow(int64(1), int64(7), true, true, time.Now(), nil))

	_, err := New(pool).Get(context.Background(), 1, 7)
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestTryInsertReturnsNewRecord(t *testing.T) {
	pool := newMockPool(t)
	visitedAt := time.Now()
	pool.ExpectQuery(`INSERT INTO attribution_records`).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(recordRows().AddRow(int64(1), int64(7), true, false, visitedAt, nil))

	rec, created, err := New(pool).TryInsert(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected created=true")
	}
	if !rec.Visited || rec.Submitted {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestTryInsertConflictReportsNotCreated(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery(`INSERT INTO attribution_records`).
		WithArgs(int64(1), int64(7)).
		WillReturnError(pgx.ErrNoRows)

	_, created, err := New(pool).TryInsert(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatal("expected created=false on conflict")
	}
}

func TestTransitionSubmittedStampsRecordOnce(t *testing.T) {
	pool := newMockPool(t)
	visitedAt := time.Now().Add(-time.Hour)
	submittedAt := time.Now()
	pool.ExpectQuery(`UPDATE attribution_records`).
		WithArgs(int64(1), int64(7)).
		WillReturnRows(recordRows().AddRow(int64(1), int64(7), true, true, visitedAt, &submittedAt))

	rec, transitioned, err := New(pool).TransitionSubmitted(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !transitioned {
		t.Fatal("expected transitioned=true")
	}
	if !rec.Submitted || rec.SubmittedAt == nil {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestTransitionSubmittedNoMatchingRowReportsNoTransition(t *testing.T) {
	pool := newMockPool(t)
	// Covers both a missing record and an already submitted one; the
	// conditional update matches neither.
	pool.ExpectQuery(`UPDATE attribution_records`).
		WithArgs(int64(1), int64(7)).
		WillReturnError(pgx.ErrNoRows)

	_, transitioned, err := New(pool).TransitionSubmitted(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if transitioned {
		t.Fatal("expected transitioned=false")
	}
}
