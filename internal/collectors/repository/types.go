package repository

import (
	"time"

	"collector_backend/platform/apperr"
)

// ClientPathType is the funnel path a collector attracts leads through.
// Stored lower-case; validated once at the storage boundary.
type ClientPathType string

const (
	PathMessenger    ClientPathType = "messenger"
	PathSubscription ClientPathType = "subscription"
	PathChatBot      ClientPathType = "chat_bot"
)

// ParseClientPathType validates a raw path type value.
func ParseClientPathType(value string) (ClientPathType, error) {
	switch ClientPathType(value) {
	case PathMessenger, PathSubscription, PathChatBot:
		return ClientPathType(value), nil
	default:
		return "", apperr.Validation("client_path_type must be one of: messenger, subscription, chat_bot")
	}
}

// Plugin is an optional vendor integration attached to a collector.
type Plugin string

const (
	PluginSenler    Plugin = "senler"
	PluginVK        Plugin = "vk"
	PluginBotHelper Plugin = "bothelper"
)

// ParsePlugin validates a raw plugin value. Empty input means no plugin.
func ParsePlugin(value string) (*Plugin, error) {
	if value == "" {
		return nil, nil
	}
	switch Plugin(value) {
	case PluginSenler, PluginVK, PluginBotHelper:
		p := Plugin(value)
		return &p, nil
	default:
		return nil, apperr.Validation("plugin must be one of: senler, vk, bothelper")
	}
}

// Collector is a tracked funnel entry point owned by an account.
type Collector struct {
	ID                  int64
	AccountID           int64
	Name                string
	Description         *string
	Transcription       *string
	ClientPathType      ClientPathType
	ClientPath          *string
	Plugin              *Plugin
	RequestPhoneNumbers bool
	FirstBonus          *string
	SecondBonus         *string
	ThirdBonus          *string
	LeadsCount          int64
	CreatedAt           time.Time
}

// CreateParams are the inputs for creating a collector.
type CreateParams struct {
	AccountID           int64
	Name                string
	Description         *string
	Transcription       *string
	ClientPathType      ClientPathType
	ClientPath          *string
	Plugin              *Plugin
	RequestPhoneNumbers bool
	FirstBonus          *string
	SecondBonus         *string
	ThirdBonus          *string
}

// UpdateParams are the inputs for updating a collector. Nil fields keep the
// stored value.
type UpdateParams struct {
	ID                  int64
	AccountID           int64
	Name                *string
	Description         *string
	Transcription       *string
	ClientPathType      *ClientPathType
	ClientPath          *string
	Plugin              *Plugin
	RequestPhoneNumbers *bool
	FirstBonus          *string
	SecondBonus         *string
	ThirdBonus          *string
}

// CollectorLead is a lead together with its funnel state on one collector.
type CollectorLead struct {
	LeadID      int64
	VKID        string
	FullName    string
	Phone       *string
	PhotoURL    *string
	Visited     bool
	Submitted   bool
	VisitedAt   time.Time
	SubmittedAt *time.Time
}
