package repository

import (
	"context"

	"tracking-catalog/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	// ListByEntity returns audit logs for one entity, newest first, paginated.
	ListByEntity(ctx context.Context, entityKind, entityID string, limit, offset int32) ([]*domain.AuditLog, error)
}
