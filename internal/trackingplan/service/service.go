// Package service implements the tracking-plan reconciler: the top-level
// orchestration that maps a nested plan submission onto canonical event and
// property records.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tracking-catalog/backend/internal/apperr"
	"tracking-catalog/backend/internal/audit"
	"tracking-catalog/backend/internal/catalog"
	"tracking-catalog/backend/internal/db"
	eventdomain "tracking-catalog/backend/internal/event/domain"
	"tracking-catalog/backend/internal/trackingplan/domain"
	planrepo "tracking-catalog/backend/internal/trackingplan/repository"
)

// EventReconciler is the event service surface the plan service needs: the
// creation and merge reconciliation paths plus the soft-delete filter for
// event id lists.
type EventReconciler interface {
	ReconcileNew(ctx context.Context, spec catalog.EventSpec) (string, error)
	MergeSpec(ctx context.Context, eventID string, spec catalog.EventSpec) error
	FilterActiveIDs(ctx context.Context, ids []string) ([]string, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]*eventdomain.Event, error)
}

// Service provides create/get/list/update/delete for tracking plans.
type Service struct {
	repo   planrepo.Repository
	events EventReconciler
	audit  audit.Recorder
}

// NewService returns a tracking-plan service backed by repo and the event
// reconciler. rec may be nil.
func NewService(repo planrepo.Repository, events EventReconciler, rec audit.Recorder) *Service {
	return &Service{repo: repo, events: events, audit: rec}
}

// Create reconciles the nested event specs in input order and persists a new
// plan referencing the resolved ids. Failures in a nested resolution abort the
// plan, but catalog records created before the failing spec stay: they are
// valid shared entities, not partial state of this plan.
func (s *Service) Create(ctx context.Context, name, description string, events []catalog.EventSpec) (*domain.TrackingPlan, error) {
	if name == "" || description == "" {
		return nil, apperr.BadRequestf("missing required fields: name and description are required")
	}
	if len(events) == 0 {
		return nil, apperr.BadRequestf("at least one event is required to create a tracking plan")
	}
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to create tracking plan")
	}
	if existing != nil {
		return nil, apperr.Conflictf("tracking plan with name '%s' already exists", name)
	}

	// No implicit dedup on create: repeated specs resolve to the same id,
	// which then appears as often as it was submitted.
	eventIDs := make([]string, 0, len(events))
	for _, spec := range events {
		id, err := s.events.ReconcileNew(ctx, spec)
		if err != nil {
			return nil, err
		}
		eventIDs = append(eventIDs, id)
	}

	now := time.Now().UTC()
	p := &domain.TrackingPlan{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		EventIDs:    eventIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, apperr.BadRequestf("%s", err.Error())
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflictf("tracking plan with name '%s' already exists", name)
		}
		return nil, apperr.Internalw(err, "failed to create tracking plan")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindTrackingPlan, p.ID, audit.ActionCreated, name)
	}
	return p, nil
}

// UpdateInput carries the optional fields of a plan update. Empty fields keep
// their prior values; Events merge additively and never remove a reference.
type UpdateInput struct {
	Name        string
	Description string
	Events      []catalog.EventSpec
}

// Update changes an active plan in place. The plan's current event list is
// first passed through the soft-delete filter (dangling deleted-event
// references are dropped silently); each submitted spec then either merges
// into an event already referenced by the plan, reuses a matching event from
// the wider catalog, or creates a new one.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.TrackingPlan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to update tracking plan")
	}
	if p == nil {
		return nil, apperr.NotFoundf("tracking plan not found")
	}
	if in.Name != "" && in.Name != p.Name {
		dup, err := s.repo.GetByName(ctx, in.Name)
		if err != nil {
			return nil, apperr.Internalw(err, "failed to update tracking plan")
		}
		if dup != nil && dup.ID != id {
			return nil, apperr.Conflictf("tracking plan with name '%s' already exists", in.Name)
		}
		p.Name = in.Name
	}
	if in.Description != "" {
		p.Description = in.Description
	}

	current, err := s.events.FilterActiveIDs(ctx, p.EventIDs)
	if err != nil {
		return nil, err
	}

	if len(in.Events) > 0 {
		inPlan, err := s.identityIndex(ctx, current)
		if err != nil {
			return nil, err
		}
		added := make([]string, 0, len(in.Events))
		for _, spec := range in.Events {
			if eventID, ok := inPlan[spec.IdentityKey()]; ok {
				if err := s.events.MergeSpec(ctx, eventID, spec); err != nil {
					return nil, err
				}
				continue
			}
			eventID, err := s.events.ReconcileNew(ctx, spec)
			if err != nil {
				return nil, err
			}
			inPlan[spec.IdentityKey()] = eventID
			added = append(added, eventID)
		}
		current = catalog.MergeIDs(current, added)
	}

	p.EventIDs = current
	if err := s.repo.Update(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflictf("tracking plan with name '%s' already exists", p.Name)
		}
		return nil, apperr.Internalw(err, "failed to update tracking plan")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindTrackingPlan, id, audit.ActionUpdated, p.Name)
	}
	return p, nil
}

// identityIndex maps (name, type) identity keys to event ids for the plan's
// current references.
func (s *Service) identityIndex(ctx context.Context, ids []string) (map[string]string, error) {
	index := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return index, nil
	}
	events, err := s.events.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		index[catalog.EventSpec{Name: e.Name, Type: e.Type}.IdentityKey()] = e.ID
	}
	return index, nil
}

// Get returns the active plan with id, its event id list passed through the
// soft-delete filter. Stale references are never surfaced, though they are not
// eagerly purged from storage.
func (s *Service) Get(ctx context.Context, id string) (*domain.TrackingPlan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to fetch tracking plan")
	}
	if p == nil {
		return nil, apperr.NotFoundf("tracking plan not found")
	}
	p.EventIDs, err = s.events.FilterActiveIDs(ctx, p.EventIDs)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns all active plans, newest first, each event id list passed
// through the soft-delete filter.
func (s *Service) List(ctx context.Context) ([]*domain.TrackingPlan, error) {
	plans, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to fetch tracking plans")
	}
	for _, p := range plans {
		p.EventIDs, err = s.events.FilterActiveIDs(ctx, p.EventIDs)
		if err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// Delete soft-deletes an active plan. Referenced events and their properties
// are untouched; the deletion is terminal (a later update will not find the
// plan) and frees the plan name for reuse.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperr.Internalw(err, "failed to delete tracking plan")
	}
	if p == nil {
		return apperr.NotFoundf("tracking plan not found")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apperr.Internalw(err, "failed to delete tracking plan")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindTrackingPlan, id, audit.ActionDeleted, p.Name)
	}
	return nil
}
