package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tracking-catalog/backend/internal/trackingplan/domain"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a tracking-plan repository that uses the given
// pool for persistence.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const planColumns = "id, name, description, event_ids, created_at, updated_at, deleted_at"

func scanPlan(row pgx.Row) (*domain.TrackingPlan, error) {
	var p domain.TrackingPlan
	var deletedAt *time.Time
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.EventIDs, &p.CreatedAt, &p.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	p.DeletedAt = deletedAt
	return &p, nil
}

// GetByID returns the active plan for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.TrackingPlan, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+planColumns+" FROM tracking_plans WHERE id = $1 AND deleted_at IS NULL", id)
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// GetByName returns the active plan with the given name, or nil if not found.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*domain.TrackingPlan, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+planColumns+" FROM tracking_plans WHERE name = $1 AND deleted_at IS NULL", name)
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListActive returns all active plans ordered by creation time descending.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*domain.TrackingPlan, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+planColumns+" FROM tracking_plans WHERE deleted_at IS NULL ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.TrackingPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create persists the plan. A concurrent insert of the same active name fails
// on the partial unique index.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.TrackingPlan) error {
	eventIDs := p.EventIDs
	if eventIDs == nil {
		eventIDs = []string{}
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO tracking_plans (id, name, description, event_ids, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		p.ID, p.Name, p.Description, eventIDs, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update persists name, description, and event ids of the active plan with
// p.ID, refreshing p.UpdatedAt with the stored timestamp.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.TrackingPlan) error {
	eventIDs := p.EventIDs
	if eventIDs == nil {
		eventIDs = []string{}
	}
	err := r.pool.QueryRow(ctx,
		"UPDATE tracking_plans SET name = $2, description = $3, event_ids = $4, updated_at = now() WHERE id = $1 AND deleted_at IS NULL RETURNING updated_at",
		p.ID, p.Name, p.Description, eventIDs).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

// SoftDelete sets the tombstone timestamp on the active plan with id.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE tracking_plans SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	return err
}
