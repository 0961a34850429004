package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"tracking-catalog/backend/internal/audit/domain"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns an audit log repository that uses the given
// pool for persistence.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists the audit log entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO audit_logs (id, entity_kind, entity_id, action, detail, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		entry.ID, entry.EntityKind, entry.EntityID, entry.Action, entry.Detail, entry.CreatedAt)
	return err
}

// ListByEntity returns audit logs for the given entity, newest first.
// Returns an error only on database failures.
func (r *PostgresRepository) ListByEntity(ctx context.Context, entityKind, entityID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT id, entity_kind, entity_id, action, detail, created_at FROM audit_logs WHERE entity_kind = $1 AND entity_id = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4",
		entityKind, entityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		var detail *string
		if err := rows.Scan(&e.ID, &e.EntityKind, &e.EntityID, &e.Action, &detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if detail != nil {
			e.Detail = *detail
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
