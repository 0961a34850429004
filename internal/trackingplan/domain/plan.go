package domain

import (
	"errors"
	"time"
)

// TrackingPlan bundles catalog events under a globally unique name. The plan
// owns its event reference list, never the events themselves: deleting a plan
// leaves every referenced event untouched.
type TrackingPlan struct {
	ID          string
	Name        string
	Description string
	EventIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Deleted reports whether the plan carries a tombstone.
func (p *TrackingPlan) Deleted() bool { return p.DeletedAt != nil }

// Validate validates the plan for persistence.
func (p *TrackingPlan) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if len(p.EventIDs) == 0 {
		return errors.New("at least one event is required")
	}
	return nil
}
