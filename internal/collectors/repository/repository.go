package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"collector_backend/platform/apperr"
	"collector_backend/platform/db"
)

const collectorNotFoundMessage = "collector not found"

const collectorColumns = `
	c.id, c.account_id, c.name, c.description, c.transcription,
	c.client_path_type, c.client_path, c.plugin, c.request_phone_numbers,
	c.first_bonus, c.second_bonus, c.third_bonus,
	(SELECT COUNT(*) FROM attribution_records ar
	 WHERE ar.collector_id = c.id AND ar.submitted) AS leads_count,
	c.created_at`

// Repo implements the collectors repository.
type Repo struct {
	pool db.Querier
}

// New creates a new collectors repository.
func New(pool db.Querier) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanCollector(row pgx.Row) (Collector, error) {
	var col Collector
	err := row.Scan(
		&col.ID, &col.AccountID, &col.Name, &col.Description, &col.Transcription,
		&col.ClientPathType, &col.ClientPath, &col.Plugin, &col.RequestPhoneNumbers,
		&col.FirstBonus, &col.SecondBonus, &col.ThirdBonus,
		&col.LeadsCount, &col.CreatedAt,
	)
	return col, err
}

// Create inserts a new collector.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Collector, error) {
	query := `
		INSERT INTO collectors (
			account_id, name, description, transcription, client_path_type,
			client_path, plugin, request_phone_numbers,
			first_bonus, second_bonus, third_bonus
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, account_id, name, description, transcription,
			client_path_type, client_path, plugin, request_phone_numbers,
			first_bonus, second_bonus, third_bonus, 0::bigint AS leads_count, created_at`

	var col Collector
	if err := r.pool.QueryRow(ctx, query,
		params.AccountID, params.Name, params.Description, params.Transcription,
		params.ClientPathType, params.ClientPath, params.Plugin, params.RequestPhoneNumbers,
		params.FirstBonus, params.SecondBonus, params.ThirdBonus,
	).Scan(
		&col.ID, &col.AccountID, &col.Name, &col.Description, &col.Transcription,
		&col.ClientPathType, &col.ClientPath, &col.Plugin, &col.RequestPhoneNumbers,
		&col.FirstBonus, &col.SecondBonus, &col.ThirdBonus,
		&col.LeadsCount, &col.CreatedAt,
	); err != nil {
		return Collector{}, fmt.Errorf("create collector: %w", err)
	}
	return col, nil
}

// GetByID retrieves a collector scoped to its owning account.
func (r *Repo) GetByID(ctx context.Context, accountID, id int64) (Collector, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM collectors c
		WHERE c.id = $1 AND c.account_id = $2`, collectorColumns)

	col, err := scanCollector(r.pool.QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Collector{}, apperr.NotFound(collectorNotFoundMessage)
		}
		return Collector{}, fmt.Errorf("get collector by id: %w", err)
	}
	return col, nil
}

// GetAnyByID retrieves a collector regardless of owner.
func (r *Repo) GetAnyByID(ctx context.Context, id int64) (Collector, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM collectors c
		WHERE c.id = $1`, collectorColumns)

	col, err := scanCollector(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Collector{}, apperr.NotFound(collectorNotFoundMessage)
		}
		return Collector{}, fmt.Errorf("get collector: %w", err)
	}
	return col, nil
}

// ListByAccount lists all collectors owned by the account.
func (r *Repo) ListByAccount(ctx context.Context, accountID int64) ([]Collector, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM collectors c
		WHERE c.account_id = $1
		ORDER BY c.created_at DESC, c.id DESC`, collectorColumns)

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list collectors: %w", err)
	}
	defer rows.Close()

	collectors := make([]Collector, 0)
	for rows.Next() {
		col, err := scanCollector(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collector: %w", err)
		}
		collectors = append(collectors, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collectors: %w", err)
	}
	return collectors, nil
}

// Update modifies a collector scoped to its owning account.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Collector, error) {
	query := `
		UPDATE collectors c
		SET name = COALESCE($3, name),
			description = COALESCE($4, description),
			transcription = COALESCE($5, transcription),
			client_path_type = COALESCE($6, client_path_type),
			client_path = COALESCE($7, client_path),
			plugin = COALESCE($8, plugin),
			request_phone_numbers = COALESCE($9, request_phone_numbers),
			first_bonus = COALESCE($10, first_bonus),
			second_bonus = COALESCE($11, second_bonus),
			third_bonus = COALESCE($12, third_bonus)
		WHERE id = $1 AND account_id = $2
		RETURNING id, account_id, name, description, transcription,
			client_path_type, client_path, plugin, request_phone_numbers,
			first_bonus, second_bonus, third_bonus,
			(SELECT COUNT(*) FROM attribution_records ar
			 WHERE ar.collector_id = c.id AND ar.submitted) AS leads_count,
			created_at`

	var col Collector
	if err := r.pool.QueryRow(ctx, query,
		params.ID, params.AccountID, params.Name, params.Description, params.Transcription,
		params.ClientPathType, params.ClientPath, params.Plugin, params.RequestPhoneNumbers,
		params.FirstBonus, params.SecondBonus, params.ThirdBonus,
	).Scan(
		&col.ID, &col.AccountID, &col.Name, &col.Description, &col.Transcription,
		&col.ClientPathType, &col.ClientPath, &col.Plugin, &col.RequestPhoneNumbers,
		&col.FirstBonus, &col.SecondBonus, &col.ThirdBonus,
		&col.LeadsCount, &col.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Collector{}, apperr.NotFound(collectorNotFoundMessage)
		}
		return Collector{}, fmt.Errorf("update collector: %w", err)
	}
	return col, nil
}

// Delete removes a collector scoped to its owning account.
func (r *Repo) Delete(ctx context.Context, accountID, id int64) error {
	query := `DELETE FROM collectors WHERE id = $1 AND account_id = $2`
	result, err := r.pool.Exec(ctx, query, id, accountID)
	if err != nil {
		return fmt.Errorf("delete collector: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(collectorNotFoundMessage)
	}
	return nil
}

// ListLeads returns the leads attributed to a collector with funnel state,
// newest visit first, optionally filtered by a name substring.
func (r *Repo) ListLeads(ctx context.Context, accountID, collectorID int64, search string) ([]CollectorLead, error) {
	// Ownership check rides on the join against the account-scoped collector.
	query := `
		SELECT l.id, l.vk_id, l.full_name, l.phone,
			ar.visited, ar.submitted, ar.visited_at, ar.submitted_at
		FROM attribution_records ar
		JOIN collectors c ON c.id = ar.collector_id
		JOIN leads l ON l.id = ar.lead_id
		WHERE ar.collector_id = $1 AND c.account_id = $2
			AND ($3 = '' OR l.full_name ILIKE '%' || $3 || '%')
		ORDER BY ar.visited_at DESC, l.id DESC`

	rows, err := r.pool.Query(ctx, query, collectorID, accountID, search)
	if err != nil {
		return nil, fmt.Errorf("list collector leads: %w", err)
	}
	defer rows.Close()

	leads := make([]CollectorLead, 0)
	for rows.Next() {
		var lead CollectorLead
		if err := rows.Scan(
			&lead.LeadID, &lead.VKID, &lead.FullName, &lead.Phone,
			&lead.Visited, &lead.Submitted, &lead.VisitedAt, &lead.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("scan collector lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collector leads: %w", err)
	}
	return leads, nil
}
