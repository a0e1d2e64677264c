package service

import (
	"context"
	"testing"
	"time"

	"collector_backend/internal/analytics/repository"
	collectorsrepo "collector_backend/internal/collectors/repository"
	"collector_backend/platform/apperr"
	"collector_backend/platform/logger"
)

type fakeTotalsRepo struct {
	totals    repository.Totals
	lastSince time.Time
}

func (f *fakeTotalsRepo) CollectorTotals(_ context.Context, _ int64, since time.Time) (repository.Totals, error) {
	f.lastSince = since
	return f.totals, nil
}

type fakeDirectory struct {
	owned map[int64]int64 // collector id -> account id
}

func (f *fakeDirectory) GetByID(_ context.Context, accountID, id int64) (collectorsrepo.Collector, error) {
	owner, ok := f.owned[id]
	if !ok || owner != accountID {
		return collectorsrepo.Collector{}, apperr.NotFound("collector not found")
	}
	return collectorsrepo.Collector{ID: id, AccountID: accountID}, nil
}

func newTestService(totals repository.Totals) (*Service, *fakeTotalsRepo) {
	repo := &fakeTotalsRepo{totals: totals}
	directory := &fakeDirectory{owned: map[int64]int64{1: 10}}
	return New(repo, directory, logger.New("test")), repo
}

func TestParseWindowAcceptsKnownTokens(t *testing.T) {
	for _, token := range []string{"day", "week", "month"} {
		window, err := ParseWindow(token)
		if err != nil {
			t.Fatalf("token %q: unexpected error: %v", token, err)
		}
		if string(window) != token {
			t.Fatalf("token %q: got window %q", token, window)
		}
	}
}

func TestParseWindowRejectsUnknownToken(t *testing.T) {
	for _, token := range []string{"", "year", "Day", "daily"} {
		if _, err := ParseWindow(token); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("token %q: expected validation error, got %v", token, err)
		}
	}
}

func TestWindowDurations(t *testing.T) {
	cases := map[Window]time.Duration{
		WindowDay:   24 * time.Hour,
		WindowWeek:  7 * 24 * time.Hour,
		WindowMonth: 30 * 24 * time.Hour,
	}
	for window, want := range cases {
		if got := window.Duration(); got != want {
			t.Fatalf("window %q: expected %v, got %v", window, want, got)
		}
	}
}

func TestCollectorReportComputesConversionRate(t *testing.T) {
	svc, _ := newTestService(repository.Totals{Visits: 10, Submissions: 3})

	report, err := svc.CollectorReport(context.Background(), 10, 1, "day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Visits != 10 || report.Submissions != 3 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.ConversionRate != 30.0 {
		t.Fatalf("expected conversion rate 30.0, got %v", report.ConversionRate)
	}
}

func TestCollectorReportZeroVisitsYieldZeroRate(t *testing.T) {
	svc, _ := newTestService(repository.Totals{Visits: 0, Submissions: 0})

	report, err := svc.CollectorReport(context.Background(), 10, 1, "week")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ConversionRate != 0 {
		t.Fatalf("expected zero rate, got %v", report.ConversionRate)
	}
}

func TestCollectorReportUsesWindowLookback(t *testing.T) {
	svc, repo := newTestService(repository.Totals{})
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.CollectorReport(context.Background(), 10, 1, "month"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(-30 * 24 * time.Hour); !repo.lastSince.Equal(want) {
		t.Fatalf("expected since %v, got %v", want, repo.lastSince)
	}
}

func TestCollectorReportRejectsUnknownPeriod(t *testing.T) {
	svc, _ := newTestService(repository.Totals{})

	_, err := svc.CollectorReport(context.Background(), 10, 1, "year")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCollectorReportScopesToOwningAccount(t *testing.T) {
	svc, _ := newTestService(repository.Totals{Visits: 5})

	_, err := svc.CollectorReport(context.Background(), 99, 1, "day")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for foreign account, got %v", err)
	}
}
