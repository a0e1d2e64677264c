package repository

import "context"

// Lead is an external prospect identified by a stable platform id.
type Lead struct {
	ID       int64
	VKID     string
	FullName string
	Phone    *string
}

// Repository defines the persistence operations for leads.
type Repository interface {
	// GetByVKID returns the lead with the given external platform id.
	// Returns apperr.NotFound if no such lead exists.
	GetByVKID(ctx context.Context, vkID string) (Lead, error)

	// TryInsert inserts a new lead unless one with the same vk_id already
	// exists. The boolean reports whether a row was actually created; on a
	// conflict the zero Lead is returned and the caller re-reads.
	TryInsert(ctx context.Context, vkID, fullName string) (Lead, bool, error)

	// UpdatePhone sets the phone number on the lead with the given vk_id.
	// Returns apperr.NotFound if no such lead exists.
	UpdatePhone(ctx context.Context, vkID, phone string) (Lead, error)
}
