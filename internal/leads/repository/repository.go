package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"collector_backend/platform/apperr"
	"collector_backend/platform/db"
)

const leadNotFoundMessage = "lead not found"

// Repo implements the leads repository.
type Repo struct {
	pool db.Querier
}

// New creates a new leads repository.
func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByVKID retrieves a lead by its external platform id.
func (r *Repo) GetByVKID(ctx context.Context, vkID string) (Lead, error) {
	query := `
		SELECT id, vk_id, full_name, phone
		FROM leads
		WHERE vk_id = $1`

	var lead Lead
	if err := r.pool.QueryRow(ctx, query, vkID).Scan(
		&lead.ID, &lead.VKID, &lead.FullName, &lead.Phone,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by vk_id: %w", err)
	}
	return lead, nil
}

// TryInsert creates a lead unless the vk_id is already taken. The unique
// constraint on vk_id arbitrates concurrent first visits; the loser sees
// created=false and re-reads the winner's row.
func (r *Repo) TryInsert(ctx context.Context, vkID, fullName string) (Lead, bool, error) {
	query := `
		INSERT INTO leads (vk_id, full_name, phone)
		VALUES ($1, $2, NULL)
		ON CONFLICT (vk_id) DO NOTHING
		RETURNING id, vk_id, full_name, phone`

	var lead Lead
	if err := r.pool.QueryRow(ctx, query, vkID, fullName).Scan(
		&lead.ID, &lead.VKID, &lead.FullName, &lead.Phone,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, false, nil
		}
		return Lead{}, false, fmt.Errorf("insert lead: %w", err)
	}
	return lead, true, nil
}

// UpdatePhone sets the phone number for the lead with the given vk_id.
func (r *Repo) UpdatePhone(ctx context.Context, vkID, phone string) (Lead, error) {
	query := `
		UPDATE leads
		SET phone = $2
		WHERE vk_id = $1
		RETURNING id, vk_id, full_name, phone`

	var lead Lead
	if err := r.pool.QueryRow(ctx, query, vkID, phone).Scan(
		&lead.ID, &lead.VKID, &lead.FullName, &lead.Phone,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead phone: %w", err)
	}
	return lead, nil
}
