// Package service implements windowed conversion analytics per collector.
package service

import (
	"context"
	"time"

	"collector_backend/internal/analytics/repository"
	collectorsrepo "collector_backend/internal/collectors/repository"
	"collector_backend/platform/apperr"
	"collector_backend/platform/logger"
)

// Window is a fixed-size lookback period for analytics queries.
type Window string

const (
	WindowDay   Window = "day"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

// ParseWindow validates a raw period token. Unrecognized tokens are
// rejected rather than silently defaulted.
func ParseWindow(value string) (Window, error) {
	switch Window(value) {
	case WindowDay, WindowWeek, WindowMonth:
		return Window(value), nil
	default:
		return "", apperr.Validation("period must be one of: day, week, month")
	}
}

// Duration returns the lookback length of the window. A month is a fixed
// 30 days, not a calendar month.
func (w Window) Duration() time.Duration {
	switch w {
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// CollectorDirectory is the slice of the directory the analytics engine
// needs to enforce ownership.
type CollectorDirectory interface {
	GetByID(ctx context.Context, accountID, id int64) (collectorsrepo.Collector, error)
}

// Report is the conversion summary for one collector over one window.
type Report struct {
	CollectorID    int64
	Window         Window
	Since          time.Time
	Visits         int64
	Submissions    int64
	ConversionRate float64
}

// Service provides windowed conversion analytics.
type Service struct {
	repo       repository.Repository
	collectors CollectorDirectory
	log        *logger.Logger
	now        func() time.Time
}

// New creates a new analytics service.
func New(repo repository.Repository, collectors CollectorDirectory, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		collectors: collectors,
		log:        log,
		now:        time.Now,
	}
}

// CollectorReport computes visit and submission totals and the conversion
// rate for a collector over the given window, scoped to the owning account.
// The rate is submissions over visits as a percentage; zero visits yield a
// zero rate rather than a division error.
func (s *Service) CollectorReport(ctx context.Context, accountID, collectorID int64, period string) (Report, error) {
	window, err := ParseWindow(period)
	if err != nil {
		return Report{}, err
	}

	if _, err := s.collectors.GetByID(ctx, accountID, collectorID); err != nil {
		return Report{}, err
	}

	since := s.now().Add(-window.Duration())
	totals, err := s.repo.CollectorTotals(ctx, collectorID, since)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		CollectorID: collectorID,
		Window:      window,
		Since:       since,
		Visits:      totals.Visits,
		Submissions: totals.Submissions,
	}
	if totals.Visits > 0 {
		report.ConversionRate = float64(totals.Submissions) / float64(totals.Visits) * 100
	}
	return report, nil
}
