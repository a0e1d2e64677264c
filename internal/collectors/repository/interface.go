package repository

import "context"

// Repository defines the persistence operations for collectors.
type Repository interface {
	// Create inserts a new collector.
	Create(ctx context.Context, params CreateParams) (Collector, error)

	// GetByID returns the collector scoped to its owning account.
	// Returns apperr.NotFound for other accounts' collectors.
	GetByID(ctx context.Context, accountID, id int64) (Collector, error)

	// GetAnyByID returns the collector regardless of owner. Used by the
	// unauthenticated visit/submission path, which addresses collectors by id.
	GetAnyByID(ctx context.Context, id int64) (Collector, error)

	// ListByAccount returns all collectors owned by the account.
	ListByAccount(ctx context.Context, accountID int64) ([]Collector, error)

	// Update modifies a collector scoped to its owning account.
	Update(ctx context.Context, params UpdateParams) (Collector, error)

	// Delete removes a collector scoped to its owning account. Attribution
	// records cascade at the storage layer.
	Delete(ctx context.Context, accountID, id int64) error

	// ListLeads returns the leads attributed to the collector with their
	// funnel state, optionally filtered by a case-insensitive name substring.
	ListLeads(ctx context.Context, accountID, collectorID int64, search string) ([]CollectorLead, error)
}
