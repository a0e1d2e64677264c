// Package repository provides persistence for collector owner accounts.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"collector_backend/platform/apperr"
	"collector_backend/platform/db"
)

const accountNotFoundMessage = "account not found"

// Account is a collector owner identified by its external platform id.
type Account struct {
	ID        int64
	VKID      string
	CreatedAt time.Time
}

// Repository defines the persistence operations for accounts.
type Repository interface {
	// GetByVKID returns the account with the given external platform id.
	GetByVKID(ctx context.Context, vkID string) (Account, error)

	// TryInsert creates an account unless the vk_id is already taken.
	// Returns created=false when another writer got there first.
	TryInsert(ctx context.Context, vkID string) (Account, bool, error)
}

// Repo implements the accounts repository.
type Repo struct {
	pool db.Querier
}

// New creates a new accounts repository.
func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByVKID retrieves an account by its external platform id.
func (r *Repo) GetByVKID(ctx context.Context, vkID string) (Account, error) {
	query := `
		SELECT id, vk_id, created_at
		FROM accounts
		WHERE vk_id = $1`

	var account Account
	if err := r.pool.QueryRow(ctx, query, vkID).Scan(
		&account.ID, &account.VKID, &account.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, apperr.NotFound(accountNotFoundMessage)
		}
		return Account{}, fmt.Errorf("get account by vk_id: %w", err)
	}
	return account, nil
}

// TryInsert creates an account unless the vk_id is already taken. The
// unique constraint arbitrates concurrent first launches; the loser sees
// created=false and re-reads the winner's row.
func (r *Repo) TryInsert(ctx context.Context, vkID string) (Account, bool, error) {
	query := `
		INSERT INTO accounts (vk_id)
		VALUES ($1)
		ON CONFLICT (vk_id) DO NOTHING
		RETURNING id, vk_id, created_at`

	var account Account
	if err := r.pool.QueryRow(ctx, query, vkID).Scan(
		&account.ID, &account.VKID, &account.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, false, nil
		}
		return Account{}, false, fmt.Errorf("insert account: %w", err)
	}
	return account, true, nil
}
