package repository

import (
	"context"

	"tracking-catalog/backend/internal/trackingplan/domain"
)

// Repository defines persistence for tracking plans. Lookups see only active
// (non-deleted) rows; a deleted plan's name may be reused.
type Repository interface {
	// GetByID returns the active plan for id, or nil if none.
	GetByID(ctx context.Context, id string) (*domain.TrackingPlan, error)
	// GetByName returns the active plan with the name, or nil if none.
	GetByName(ctx context.Context, name string) (*domain.TrackingPlan, error)
	// ListActive returns all active plans, newest first.
	ListActive(ctx context.Context) ([]*domain.TrackingPlan, error)
	// Create persists the plan. The plan must have ID set.
	Create(ctx context.Context, p *domain.TrackingPlan) error
	// Update persists name, description, and event ids of the active plan with
	// p.ID, refreshing p.UpdatedAt with the stored timestamp.
	Update(ctx context.Context, p *domain.TrackingPlan) error
	// SoftDelete sets the tombstone timestamp on the active plan with id.
	SoftDelete(ctx context.Context, id string) error
}
