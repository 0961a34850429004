// Package service implements the event catalog operations and the event
// reconciler used by tracking-plan submissions.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tracking-catalog/backend/internal/apperr"
	"tracking-catalog/backend/internal/audit"
	"tracking-catalog/backend/internal/catalog"
	"tracking-catalog/backend/internal/db"
	"tracking-catalog/backend/internal/event/domain"
	eventrepo "tracking-catalog/backend/internal/event/repository"
)

// PropertyReconciler is the property service surface the event service needs:
// spec-to-id reconciliation and the soft-delete filter for property id lists.
type PropertyReconciler interface {
	ReconcileSpecs(ctx context.Context, eventName string, specs []catalog.PropertySpec) ([]string, error)
	FilterActiveIDs(ctx context.Context, ids []string) ([]string, error)
}

// Service provides create/get/list/update/delete for events plus the
// reconciliation entry points used by the tracking-plan service.
type Service struct {
	repo     eventrepo.Repository
	resolver *catalog.Resolver
	props    PropertyReconciler
	types    domain.Types
	audit    audit.Recorder
}

// NewService returns an event service backed by repo. types is the recognized
// event-type set; rec may be nil.
func NewService(repo eventrepo.Repository, props PropertyReconciler, types domain.Types, rec audit.Recorder) *Service {
	return &Service{
		repo:     repo,
		resolver: catalog.NewResolver(identityStore{repo: repo}),
		props:    props,
		types:    types,
		audit:    rec,
	}
}

// identityStore adapts the event repository to the catalog resolver. Newly
// created events start with an empty property id list; the reconcile paths
// fill it in afterwards.
type identityStore struct {
	repo eventrepo.Repository
}

func (s identityStore) FindActiveByIdentity(ctx context.Context, name, typ string) (*catalog.Record, error) {
	e, err := s.repo.GetByNameAndType(ctx, name, typ)
	if err != nil || e == nil {
		return nil, err
	}
	return &catalog.Record{ID: e.ID, Description: e.Description}, nil
}

func (s identityStore) CreateRecord(ctx context.Context, name, typ, description string) (*catalog.Record, error) {
	now := time.Now().UTC()
	e := &domain.Event{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        typ,
		Description: description,
		PropertyIDs: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return &catalog.Record{ID: e.ID, Description: e.Description}, nil
}

func (s *Service) validateSpec(spec catalog.EventSpec) error {
	if spec.Name == "" || spec.Type == "" || spec.Description == "" {
		return apperr.BadRequestf("event name, type, and description are required")
	}
	if !s.types.Contains(spec.Type) {
		return apperr.BadRequestf("unrecognized event type %q, must be one of: %s", spec.Type, s.types)
	}
	return nil
}

/// ReconcileNew is the creation-path reconciler: it resolves spec to a canonical
// event id, creating the event (and its properties) when the identity is new.
// When the identity resolves to an existing event, submitted properties are
// ignored; the stored property set stands. Property attachment to known events
// happens only through the merge path.
func (s *Service) ReconcileNew(ctx context.Context, spec catalog.EventSpec) (string, error) {
	if err := s.validateSpec(spec); err != nil {
		return "", err
	}
	res, err := s.resolver.Resolve(ctx, spec.Name, spec.Type, spec.Description)
	if err != nil {
		if errors.Is(err, catalog.ErrDescriptionMismatch) {
			return "", apperr.Conflictf("event '%s' already exists with a different description", spec.Name)
		}
		if db.IsUniqueViolation(err) {
			return "", apperr.Conflictf("event '%s' of type '%s' was created concurrently, retry the request", spec.Name, spec.Type)
		}
		return "", apperr.Internalw(err, "failed to resolve event")
	}
	if !res.Created {
		return res.ID, nil
	}
	if len(spec.Properties) > 0 {
		ids, err := s.props.ReconcileSpecs(ctx, spec.Name, spec.Properties)
		if err != nil {
			return "", err
		}
		if err := s.repo.UpdatePropertyIDs(ctx, res.ID, catalog.Dedupe(ids)); err != nil {
			return "", apperr.Internalw(err, "failed to store event properties")
		}
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindEvent, res.ID, audit.ActionCreated, spec.Name+"/"+spec.Type)
	}
	return res.ID, nil
}

// MergeSpec is the merge-path reconciler, used when an already-referenced
// event is submitted again with new data: the description is updated when it
// changed, and resolved property ids are unioned into the event's current list
// (existing ids first, new ids in spec order).
func (s *Service) MergeSpec(ctx context.Context, eventID string, spec catalog.EventSpec) error {
	if err := s.validateSpec(spec); err != nil {
		return err
	}
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return apperr.Internalw(err, "failed to fetch event")
	}
	if e == nil {
		return apperr.NotFoundf("event not found")
	}
	current, err := s.props.FilterActiveIDs(ctx, e.PropertyIDs)
	if err != nil {
		return err
	}
	merged := current
	if len(spec.Properties) > 0 {
		ids, err := s.props.ReconcileSpecs(ctx, spec.Name, spec.Properties)
		if err != nil {
			return err
		}
		merged = catalog.MergeIDs(current, ids)
	}
	e.Description = spec.Description
	e.PropertyIDs = merged
	if err := s.repo.Update(ctx, e); err != nil {
		return apperr.Internalw(err, "failed to update event")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindEvent, eventID, audit.ActionUpdated, spec.Name+"/"+spec.Type)
	}
	return nil
}

// Create adds a new event to the catalog. Unlike the reconcile path, a
// matching active identity is always a conflict here, even with an identical
// description.
func (s *Service) Create(ctx context.Context, name, typ, description string, properties []catalog.PropertySpec) (*domain.Event, error) {
	now := time.Now().UTC()
	e := &domain.Event{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        typ,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.Validate(s.types); err != nil {
		return nil, apperr.BadRequestf("%s", err.Error())
	}
	existing, err := s.repo.GetByNameAndType(ctx, name, typ)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to create event")
	}
	if existing != nil {
		return nil, apperr.Conflictf("event with name '%s' and type '%s' already exists", name, typ)
	}
	if len(properties) > 0 {
		ids, err := s.props.ReconcileSpecs(ctx, name, properties)
		if err != nil {
			return nil, err
		}
		e.PropertyIDs = catalog.Dedupe(ids)
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflictf("event with name '%s' and type '%s' already exists", name, typ)
		}
		return nil, apperr.Internalw(err, "failed to create event")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindEvent, e.ID, audit.ActionCreated, name+"/"+typ)
	}
	return e, nil
}

// Get returns the active event with id, its property id list passed through
// the soft-delete filter.
func (s *Service) Get(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to fetch event")
	}
	if e == nil {
		return nil, apperr.NotFoundf("event not found")
	}
	e.PropertyIDs, err = s.props.FilterActiveIDs(ctx, e.PropertyIDs)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all active events, newest first, each property id list passed
// through the soft-delete filter.
func (s *Service) List(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to fetch events")
	}
	for _, e := range events {
		e.PropertyIDs, err = s.props.FilterActiveIDs(ctx, e.PropertyIDs)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

// UpdateInput carries the optional fields of an event update. Empty fields
// keep their prior values; Properties merge additively.
type UpdateInput struct {
	Name        string
	Type        string
	Description string
	Properties  []catalog.PropertySpec
}

// Update changes an active event in place. Renaming checks the (name, type)
// uniqueness invariant; submitted properties are reconciled and unioned into
// the current (filtered) list, never removed.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to update event")
	}
	if e == nil {
		return nil, apperr.NotFoundf("event not found")
	}
	name, typ := e.Name, e.Type
	if in.Name != "" {
		name = in.Name
	}
	if in.Type != "" {
		typ = in.Type
	}
	if !s.types.Contains(typ) {
		return nil, apperr.BadRequestf("unrecognized event type %q, must be one of: %s", typ, s.types)
	}
	if name != e.Name || typ != e.Type {
		dup, err := s.repo.GetByNameAndType(ctx, name, typ)
		if err != nil {
			return nil, apperr.Internalw(err, "failed to update event")
		}
		if dup != nil && dup.ID != id {
			return nil, apperr.Conflictf("event with name '%s' and type '%s' already exists", name, typ)
		}
	}
	propertyIDs, err := s.props.FilterActiveIDs(ctx, e.PropertyIDs)
	if err != nil {
		return nil, err
	}
	if len(in.Properties) > 0 {
		ids, err := s.props.ReconcileSpecs(ctx, name, in.Properties)
		if err != nil {
			return nil, err
		}
		propertyIDs = catalog.MergeIDs(propertyIDs, ids)
	}
	e.Name = name
	e.Type = typ
	if in.Description != "" {
		e.Description = in.Description
	}
	e.PropertyIDs = propertyIDs
	if err := s.repo.Update(ctx, e); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflictf("event with name '%s' and type '%s' already exists", name, typ)
		}
		return nil, apperr.Internalw(err, "failed to update event")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindEvent, id, audit.ActionUpdated, name+"/"+typ)
	}
	return e, nil
}

// Delete soft-deletes an active event. Tracking plans referencing it keep the
// id; read paths filter it out.
func (s *Service) Delete(ctx context.Context, id string) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperr.Internalw(err, "failed to delete event")
	}
	if e == nil {
		return apperr.NotFoundf("event not found")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apperr.Internalw(err, "failed to delete event")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindEvent, id, audit.ActionDeleted, "")
	}
	return nil
}

// FilterActiveIDs is the soft-delete filter for event id lists: it returns the
// ids whose event is still active, preserving input order.
func (s *Service) FilterActiveIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	active, err := s.repo.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to filter event ids")
	}
	set := make(map[string]struct{}, len(active))
	for _, e := range active {
		set[e.ID] = struct{}{}
	}
	return catalog.FilterKnown(ids, set), nil
}

// FindActiveByIDs returns the active events among ids. Used by the
// tracking-plan reconciler to key a plan's current events by identity.
func (s *Service) FindActiveByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	events, err := s.repo.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to fetch events")
	}
	return events, nil
}
