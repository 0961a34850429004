package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tracking-catalog/backend/internal/event/domain"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns an event repository that uses the given pool
// for persistence.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const eventColumns = "id, name, type, description, property_ids, created_at, updated_at, deleted_at"

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	var deletedAt *time.Time
	if err := row.Scan(&e.ID, &e.Name, &e.Type, &e.Description, &e.PropertyIDs, &e.CreatedAt, &e.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	e.DeletedAt = deletedAt
	return &e, nil
}

// GetByID returns the active event for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = $1 AND deleted_at IS NULL", id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// GetByNameAndType returns the active event with the given identity, or nil
// if not found.
func (r *PostgresRepository) GetByNameAndType(ctx context.Context, name, typ string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+eventColumns+" FROM events WHERE name = $1 AND type = $2 AND deleted_at IS NULL", name, typ)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// GetActiveByIDs returns the active events among ids.
func (r *PostgresRepository) GetActiveByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ANY($1) AND deleted_at IS NULL", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListActive returns all active events ordered by creation time descending.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+eventColumns+" FROM events WHERE deleted_at IS NULL ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]*domain.Event, error) {
	var out []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create persists the event. A concurrent insert of the same active
// (name, type) identity fails on the partial unique index.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Event) error {
	propertyIDs := e.PropertyIDs
	if propertyIDs == nil {
		propertyIDs = []string{}
	}
	_, err := r.pool.Exec(ctx,
		"INSERT INTO events (id, name, type, description, property_ids, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		e.ID, e.Name, e.Type, e.Description, propertyIDs, e.CreatedAt, e.UpdatedAt)
	return err
}

// Update persists name, type, description, and property ids of the active
// event with e.ID, refreshing e.UpdatedAt with the stored timestamp.
func (r *PostgresRepository) Update(ctx context.Context, e *domain.Event) error {
	propertyIDs := e.PropertyIDs
	if propertyIDs == nil {
		propertyIDs = []string{}
	}
	err := r.pool.QueryRow(ctx,
		"UPDATE events SET name = $2, type = $3, description = $4, property_ids = $5, updated_at = now() WHERE id = $1 AND deleted_at IS NULL RETURNING updated_at",
		e.ID, e.Name, e.Type, e.Description, propertyIDs).Scan(&e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

// UpdatePropertyIDs replaces the property id list of the active event with id.
func (r *PostgresRepository) UpdatePropertyIDs(ctx context.Context, id string, propertyIDs []string) error {
	if propertyIDs == nil {
		propertyIDs = []string{}
	}
	_, err := r.pool.Exec(ctx,
		"UPDATE events SET property_ids = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		id, propertyIDs)
	return err
}

// SoftDelete sets the tombstone timestamp on the active event with id.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE events SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	return err
}
