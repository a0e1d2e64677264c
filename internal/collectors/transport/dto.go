package transport

import (
	"time"

	"collector_backend/internal/collectors/repository"
	"collector_backend/internal/collectors/service"
)

// CreateCollectorRequest is the payload for creating a collector.
type CreateCollectorRequest struct {
	Name                string  `json:"name" validate:"required,max=255"`
	Description         *string `json:"description" validate:"omitempty,max=2000"`
	Transcription       *string `json:"transcription" validate:"omitempty,max=2000"`
	ClientPathType      string  `json:"client_path_type" validate:"required"`
	ClientPath          *string `json:"client_path" validate:"omitempty,max=1000"`
	Plugin              string  `json:"plugin" validate:"omitempty,max=64"`
	RequestPhoneNumbers bool    `json:"request_phone_numbers"`
	FirstBonus          *string `json:"first_bonus" validate:"omitempty,max=1000"`
	SecondBonus         *string `json:"second_bonus" validate:"omitempty,max=1000"`
	ThirdBonus          *string `json:"third_bonus" validate:"omitempty,max=1000"`
}

// UpdateCollectorRequest is the payload for updating a collector. Absent
// fields keep their stored value.
type UpdateCollectorRequest struct {
	Name                *string `json:"name" validate:"omitempty,max=255"`
	Description         *string `json:"description" validate:"omitempty,max=2000"`
	Transcription       *string `json:"transcription" validate:"omitempty,max=2000"`
	ClientPathType      *string `json:"client_path_type"`
	ClientPath          *string `json:"client_path" validate:"omitempty,max=1000"`
	Plugin              *string `json:"plugin" validate:"omitempty,max=64"`
	RequestPhoneNumbers *bool   `json:"request_phone_numbers"`
	FirstBonus          *string `json:"first_bonus" validate:"omitempty,max=1000"`
	SecondBonus         *string `json:"second_bonus" validate:"omitempty,max=1000"`
	ThirdBonus          *string `json:"third_bonus" validate:"omitempty,max=1000"`
}

// ToCreateInput maps the request to the service input.
func (r CreateCollectorRequest) ToCreateInput() service.CreateInput {
	return service.CreateInput{
		Name:                r.Name,
		Description:         r.Description,
		Transcription:       r.Transcription,
		ClientPathType:      r.ClientPathType,
		ClientPath:          r.ClientPath,
		Plugin:              r.Plugin,
		RequestPhoneNumbers: r.RequestPhoneNumbers,
		FirstBonus:          r.FirstBonus,
		SecondBonus:         r.SecondBonus,
		ThirdBonus:          r.ThirdBonus,
	}
}

// ToUpdateInput maps the request to the service input.
func (r UpdateCollectorRequest) ToUpdateInput() service.UpdateInput {
	return service.UpdateInput{
		Name:                r.Name,
		Description:         r.Description,
		Transcription:       r.Transcription,
		ClientPathType:      r.ClientPathType,
		ClientPath:          r.ClientPath,
		Plugin:              r.Plugin,
		RequestPhoneNumbers: r.RequestPhoneNumbers,
		FirstBonus:          r.FirstBonus,
		SecondBonus:         r.SecondBonus,
		ThirdBonus:          r.ThirdBonus,
	}
}

// CollectorResponse is the collector representation returned by the API.
type CollectorResponse struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Description         *string `json:"description,omitempty"`
	Transcription       *string `json:"transcription,omitempty"`
	ClientPathType      string  `json:"client_path_type"`
	ClientPath          *string `json:"client_path,omitempty"`
	Plugin              *string `json:"plugin,omitempty"`
	RequestPhoneNumbers bool    `json:"request_phone_numbers"`
	FirstBonus          *string `json:"first_bonus,omitempty"`
	SecondBonus         *string `json:"second_bonus,omitempty"`
	ThirdBonus          *string `json:"third_bonus,omitempty"`
	LeadsCount          int64   `json:"leads_count"`
	CreatedAt           string  `json:"created_at"`
}

// CollectorLeadResponse is a lead with its funnel state on one collector.
type CollectorLeadResponse struct {
	LeadID      int64   `json:"lead_id"`
	VKID        string  `json:"vk_id"`
	FullName    string  `json:"full_name"`
	Phone       *string `json:"phone,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
	Visited     bool    `json:"visited"`
	Submitted   bool    `json:"submitted"`
	VisitedAt   string  `json:"visited_at"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
}

// NewCollectorResponse maps a collector to its response representation.
func NewCollectorResponse(c repository.Collector) CollectorResponse {
	resp := CollectorResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Description:         c.Description,
		Transcription:       c.Transcription,
		ClientPathType:      string(c.ClientPathType),
		ClientPath:          c.ClientPath,
		RequestPhoneNumbers: c.RequestPhoneNumbers,
		FirstBonus:          c.FirstBonus,
		SecondBonus:         c.SecondBonus,
		ThirdBonus:          c.ThirdBonus,
		LeadsCount:          c.LeadsCount,
		CreatedAt:           c.CreatedAt.Format(time.RFC3339),
	}
	if c.Plugin != nil {
		plugin := string(*c.Plugin)
		resp.Plugin = &plugin
	}
	return resp
}

// NewCollectorListResponse maps a collector slice, never returning nil.
func NewCollectorListResponse(collectors []repository.Collector) []CollectorResponse {
	responses := make([]CollectorResponse, 0, len(collectors))
	for _, c := range collectors {
		responses = append(responses, NewCollectorResponse(c))
	}
	return responses
}

// NewCollectorLeadResponse maps a collector lead to its response representation.
func NewCollectorLeadResponse(lead repository.CollectorLead) CollectorLeadResponse {
	resp := CollectorLeadResponse{
		LeadID:    lead.LeadID,
		VKID:      lead.VKID,
		FullName:  lead.FullName,
		Phone:     lead.Phone,
		PhotoURL:  lead.PhotoURL,
		Visited:   lead.Visited,
		Submitted: lead.Submitted,
		VisitedAt: lead.VisitedAt.Format(time.RFC3339),
	}
	if lead.SubmittedAt != nil {
		submittedAt := lead.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &submittedAt
	}
	return resp
}

// NewCollectorLeadListResponse maps a collector lead slice, never returning nil.
func NewCollectorLeadListResponse(leads []repository.CollectorLead) []CollectorLeadResponse {
	responses := make([]CollectorLeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, NewCollectorLeadResponse(lead))
	}
	return responses
}
