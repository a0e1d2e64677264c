package transport

import (
	"time"

	"collector_backend/internal/analytics/service"
)

// ReportResponse is the conversion summary returned by the analytics endpoint.
type ReportResponse struct {
	CollectorID    int64   `json:"collector_id"`
	Period         string  `json:"period"`
	Since          string  `json:"since"`
	Visits         int64   `json:"visits"`
	Submissions    int64   `json:"submissions"`
	ConversionRate float64 `json:"conversion_rate"`
}

// NewReportResponse maps a report to its response representation.
func NewReportResponse(report service.Report) ReportResponse {
	return ReportResponse{
		CollectorID:    report.CollectorID,
		Period:         string(report.Window),
		Since:          report.Since.Format(time.RFC3339),
		Visits:         report.Visits,
		Submissions:    report.Submissions,
		ConversionRate: report.ConversionRate,
	}
}
