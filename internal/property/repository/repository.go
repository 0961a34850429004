package repository

import (
	"context"

	"tracking-catalog/backend/internal/property/domain"
)

// Repository defines persistence for properties. All lookups except
// GetActiveByIDs-by-explicit-id see only active (non-deleted) rows.
type Repository interface {
	// GetByID returns the active property for id, or nil if none.
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	// GetByNameAndType returns the active property with the identity, or nil if none.
	GetByNameAndType(ctx context.Context, name, typ string) (*domain.Property, error)
	// GetActiveByIDs returns the active properties among ids, in no particular order.
	GetActiveByIDs(ctx context.Context, ids []string) ([]*domain.Property, error)
	// ListActive returns all active properties, newest first.
	ListActive(ctx context.Context) ([]*domain.Property, error)
	// Create persists the property. The property must have ID set.
	Create(ctx context.Context, p *domain.Property) error
	// UpdateDescription changes the description of the active property with id.
	UpdateDescription(ctx context.Context, id, description string) error
	// SoftDelete sets the tombstone timestamp on the active property with id.
	SoftDelete(ctx context.Context, id string) error
}
