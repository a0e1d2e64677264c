package transport

import (
	"time"

	"collector_backend/internal/attribution/repository"
	leadsrepo "collector_backend/internal/leads/repository"
)

// RecordVisitRequest is the payload for recording a funnel visit.
type RecordVisitRequest struct {
	VKID     string `json:"vk_id" validate:"required"`
	FullName string `json:"full_name" validate:"omitempty,max=255"`
}

// RecordSubmissionRequest is the payload for recording a form submission.
type RecordSubmissionRequest struct {
	VKID  string `json:"vk_id" validate:"required"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// LeadResponse is the lead representation returned by the ledger endpoints.
type LeadResponse struct {
	ID       int64   `json:"id"`
	VKID     string  `json:"vk_id"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone,omitempty"`
}

// RecordResponse is the attribution record representation.
type RecordResponse struct {
	CollectorID int64   `json:"collector_id"`
	LeadID      int64   `json:"lead_id"`
	Visited     bool    `json:"visited"`
	Submitted   bool    `json:"submitted"`
	VisitedAt   string  `json:"visited_at"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
}

// VisitResponse is returned by the visit endpoint.
type VisitResponse struct {
	Lead           LeadResponse   `json:"lead"`
	Record         RecordResponse `json:"record"`
	AlreadyVisited bool           `json:"already_visited"`
}

// NewLeadResponse maps a lead row to its response representation.
func NewLeadResponse(lead leadsrepo.Lead) LeadResponse {
	return LeadResponse{
		ID:       lead.ID,
		VKID:     lead.VKID,
		FullName: lead.FullName,
		Phone:    lead.Phone,
	}
}

// NewRecordResponse maps an attribution record to its response representation.
func NewRecordResponse(rec repository.Record) RecordResponse {
	resp := RecordResponse{
		CollectorID: rec.CollectorID,
		LeadID:      rec.LeadID,
		Visited:     rec.Visited,
		Submitted:   rec.Submitted,
		VisitedAt:   rec.VisitedAt.Format(time.RFC3339),
	}
	if rec.SubmittedAt != nil {
		submittedAt := rec.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &submittedAt
	}
	return resp
}
