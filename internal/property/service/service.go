// Package service implements the property catalog operations and the property
// reconciler used by nested event and tracking-plan submissions.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"tracking-catalog/backend/internal/apperr"
	"tracking-catalog/backend/internal/audit"
	"tracking-catalog/backend/internal/catalog"
	"tracking-catalog/backend/internal/db"
	"tracking-catalog/backend/internal/property/domain"
	propertyrepo "tracking-catalog/backend/internal/property/repository"
)

// Service provides create/get/list/update/delete for properties plus the
// reconciliation entry points used by the event and tracking-plan services.
type Service struct {
	repo     propertyrepo.Repository
	resolver *catalog.Resolver
	audit    audit.Recorder
}

// NewService returns a property service backed by repo. rec may be nil; then
// mutations are not audited.
func NewService(repo propertyrepo.Repository, rec audit.Recorder) *Service {
	return &Service{
		repo:     repo,
		resolver: catalog.NewResolver(identityStore{repo: repo}),
		audit:    rec,
	}
}

// identityStore adapts the property repository to the catalog resolver.
type identityStore struct {
	repo propertyrepo.Repository
}

func (s identityStore) FindActiveByIdentity(ctx context.Context, name, typ string) (*catalog.Record, error) {
	p, err := s.repo.GetByNameAndType(ctx, name, typ)
	if err != nil || p == nil {
		return nil, err
	}
	return &catalog.Record{ID: p.ID, Description: p.Description}, nil
}

func (s identityStore) CreateRecord(ctx context.Context, name, typ, description string) (*catalog.Record, error) {
	now := time.Now().UTC()
	p := &domain.Property{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        domain.Type(typ),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return &catalog.Record{ID: p.ID, Description: p.Description}, nil
}

func typeList() string {
	types := domain.AllTypes()
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// Create adds a new property to the catalog. Unlike the reconcile path, a
// matching active identity is always a conflict here, even with an identical
// description.
func (s *Service) Create(ctx context.Context, name, typ, description string) (*domain.Property, error) {
	if name == "" || typ == "" || description == "" {
		return nil, apperr.BadRequestf("missing required fields: name, type, and description are required")
	}
	if !domain.ValidType(typ) {
		return nil, apperr.BadRequestf("invalid property type %q, must be one of: %s", typ, typeList())
	}
	existing, err := s.repo.GetByNameAndType(ctx, name, typ)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to create property")
	}
	if existing != nil {
		return nil, apperr.Conflictf("property with name '%s' and type '%s' already exists", name, typ)
	}
	now := time.Now().UTC()
	p := &domain.Property{
		ID:          uuid.New().String(),
		Name:        name,
		Type:        domain.Type(typ),
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return nil, apperr.BadRequestf("%s", err.Error())
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Conflictf("property with name '%s' and type '%s' already exists", name, typ)
		}
		return nil, apperr.Internalw(err, "failed to create property")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindProperty, p.ID, audit.ActionCreated, name+"/"+typ)
	}
	return p, nil
}

// Get returns the active property with id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to fetch property")
	}
	if p == nil {
		return nil, apperr.NotFoundf("property not found")
	}
	return p, nil
}

// List returns all active properties, newest first.
func (s *Service) List(ctx context.Context) ([]*domain.Property, error) {
	out, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to fetch properties")
	}
	return out, nil
}

// UpdateDescription changes the description of an active property. Identity
// (name, type) is immutable.
func (s *Service) UpdateDescription(ctx context.Context, id, description string) (*domain.Property, error) {
	if description == "" {
		return nil, apperr.BadRequestf("description is required")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to update property")
	}
	if p == nil {
		return nil, apperr.NotFoundf("property not found")
	}
	if err := s.repo.UpdateDescription(ctx, id, description); err != nil {
		return nil, apperr.Internalw(err, "failed to update property")
	}
	// Re-read so the caller sees the stored updated_at, not an approximation.
	p, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to update property")
	}
	if p == nil {
		return nil, apperr.NotFoundf("property not found")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindProperty, id, audit.ActionUpdated, "description")
	}
	return p, nil
}

// Delete soft-deletes an active property. Events referencing it keep the id;
// read paths filter it out.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperr.Internalw(err, "failed to delete property")
	}
	if p == nil {
		return apperr.NotFoundf("property not found")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return apperr.Internalw(err, "failed to delete property")
	}
	if s.audit != nil {
		s.audit.Record(ctx, audit.KindProperty, id, audit.ActionDeleted, "")
	}
	return nil
}

// ReconcileSpecs resolves property specs to canonical ids in input order,
// creating missing properties. Duplicate specs resolve to the same id, which
// may then appear more than once in the output. eventName names the enclosing
// event in validation messages.
func (s *Service) ReconcileSpecs(ctx context.Context, eventName string, specs []catalog.PropertySpec) ([]string, error) {
	ids := make([]string, 0, len(specs))
	for _, spec := range specs {
		if spec.Name == "" || spec.Type == "" || spec.Description == "" {
			return nil, apperr.BadRequestf("property name, type, and description are required for event '%s'", eventName)
		}
		if !domain.ValidType(spec.Type) {
			return nil, apperr.BadRequestf("invalid property type %q for event '%s', must be one of: %s", spec.Type, eventName, typeList())
		}
		res, err := s.resolver.Resolve(ctx, spec.Name, spec.Type, spec.Description)
		if err != nil {
			if errors.Is(err, catalog.ErrDescriptionMismatch) {
				return nil, apperr.Conflictf("property '%s' of type '%s' already exists with a different description", spec.Name, spec.Type)
			}
			if db.IsUniqueViolation(err) {
				// Lost a concurrent compare-and-create of the same identity.
				return nil, apperr.Conflictf("property '%s' of type '%s' was created concurrently, retry the request", spec.Name, spec.Type)
			}
			return nil, apperr.Internalw(err, "failed to resolve property")
		}
		if res.Created && s.audit != nil {
			s.audit.Record(ctx, audit.KindProperty, res.ID, audit.ActionCreated, spec.Name+"/"+spec.Type)
		}
		ids = append(ids, res.ID)
	}
	return ids, nil
}

// FilterActiveIDs is the soft-delete filter for property id lists: it returns
// the ids whose property is still active, preserving input order.
func (s *Service) FilterActiveIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	active, err := s.repo.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internalw(err, "failed to filter property ids")
	}
	set := make(map[string]struct{}, len(active))
	for _, p := range active {
		set[p.ID] = struct{}{}
	}
	return catalog.FilterKnown(ids, set), nil
}
