package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tracking-catalog/backend/internal/property/domain"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a property repository that uses the given pool
// for persistence.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const propertyColumns = "id, name, type, description, created_at, updated_at, deleted_at"

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var p domain.Property
	var typ string
	var deletedAt *time.Time
	if err := row.Scan(&p.ID, &p.Name, &typ, &p.Description, &p.CreatedAt, &p.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	p.Type = domain.Type(typ)
	p.DeletedAt = deletedAt
	return &p, nil
}

// GetByID returns the active property for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE id = $1 AND deleted_at IS NULL", id)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// GetByNameAndType returns the active property with the given identity, or nil
// if not found.
func (r *PostgresRepository) GetByNameAndType(ctx context.Context, name, typ string) (*domain.Property, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE name = $1 AND type = $2 AND deleted_at IS NULL", name, typ)
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// GetActiveByIDs returns the active properties among ids.
func (r *PostgresRepository) GetActiveByIDs(ctx context.Context, ids []string) ([]*domain.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE id = ANY($1) AND deleted_at IS NULL", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProperties(rows)
}

// ListActive returns all active properties ordered by creation time descending.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*domain.Property, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE deleted_at IS NULL ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProperties(rows)
}

func collectProperties(rows pgx.Rows) ([]*domain.Property, error) {
	var out []*domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create persists the property. A concurrent insert of the same active
// (name, type) identity fails on the partial unique index.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Property) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO properties (id, name, type, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)",
		p.ID, p.Name, string(p.Type), p.Description, p.CreatedAt, p.UpdatedAt)
	return err
}

// UpdateDescription changes the description of the active property with id.
func (r *PostgresRepository) UpdateDescription(ctx context.Context, id, description string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE properties SET description = $2, updated_at = now() WHERE id = $1 AND deleted_at IS NULL",
		id, description)
	return err
}

// SoftDelete sets the tombstone timestamp on the active property with id.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE properties SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL", id)
	return err
}
