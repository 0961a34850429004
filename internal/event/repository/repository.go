package repository

import (
	"context"

	"tracking-catalog/backend/internal/event/domain"
)

// Repository defines persistence for events. Lookups see only active
// (non-deleted) rows.
type Repository interface {
	// GetByID returns the active event for id, or nil if none.
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// GetByNameAndType returns the active event with the identity, or nil if none.
	GetByNameAndType(ctx context.Context, name, typ string) (*domain.Event, error)
	// GetActiveByIDs returns the active events among ids, in no particular order.
	GetActiveByIDs(ctx context.Context, ids []string) ([]*domain.Event, error)
	// ListActive returns all active events, newest first.
	ListActive(ctx context.Context) ([]*domain.Event, error)
	// Create persists the event. The event must have ID set.
	Create(ctx context.Context, e *domain.Event) error
	// Update persists name, type, description, and property ids of the active
	// event with e.ID, refreshing e.UpdatedAt with the stored timestamp.
	Update(ctx context.Context, e *domain.Event) error
	// UpdatePropertyIDs replaces the property id list of the active event with id.
	UpdatePropertyIDs(ctx context.Context, id string, propertyIDs []string) error
	// SoftDelete sets the tombstone timestamp on the active event with id.
	SoftDelete(ctx context.Context, id string) error
}
