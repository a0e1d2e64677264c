package notification

import (
	"strings"
	"testing"
	"time"

	"collector_backend/internal/events"
)

func TestFormatLeadSubmittedIncludesAllDetails(t *testing.T) {
	event := events.LeadSubmitted{
		CollectorID:   1,
		CollectorName: "Promo funnel",
		LeadID:        7,
		LeadVKID:      "100",
		LeadFullName:  "Ivan Petrov",
		LeadPhone:     "+79123456789",
		SubmittedAt:   time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC),
	}

	text := formatLeadSubmitted(event)
	for _, want := range []string{"Promo funnel", "#1", "Ivan Petrov", "100", "+79123456789", "2025-06-15"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in message, got:\n%s", want, text)
		}
	}
}

func TestFormatLeadSubmittedWithoutOptionalFields(t *testing.T) {
	event := events.LeadSubmitted{
		CollectorID:  2,
		LeadVKID:     "200",
		LeadFullName: "Anna",
		SubmittedAt:  time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC),
	}

	text := formatLeadSubmitted(event)
	if !strings.Contains(text, "Collector: #2") {
		t.Fatalf("expected collector id fallback, got:\n%s", text)
	}
	if strings.Contains(text, "Phone:") {
		t.Fatalf("expected no phone line, got:\n%s", text)
	}
}
