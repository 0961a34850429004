package catalog

import (
	"context"
	"errors"
	"fmt"
)

// ErrDescriptionMismatch reports that an active record with the requested
// (name, type) identity exists but carries a different description. Callers
// wrap it into a Conflict with a kind-specific message.
var ErrDescriptionMismatch = errors.New("identity exists with a different description")

// Record is the view of a stored catalog entity the resolver compares against.
type Record struct {
	ID          string
	Description string
}

// IdentityStore is the per-kind storage the resolver needs. FindActiveByIdentity
// returns (nil, nil) when no active record has the identity. CreateRecord must be
// backed by a uniqueness constraint on active (name, type) rows so a concurrent
// create of the same identity fails rather than producing a duplicate.
type IdentityStore interface {
	FindActiveByIdentity(ctx context.Context, name, typ string) (*Record, error)
	CreateRecord(ctx context.Context, name, typ, description string) (*Record, error)
}

// Resolution is the outcome of a resolve-or-create.
type Resolution struct {
	ID      string
	Created bool
}

// Resolver maps a (name, type, description) triple onto a canonical stored id
// for one record kind: reuse when an active record with that identity and the
// same description exists, create when none exists, ErrDescriptionMismatch when
// the identity exists with different semantics.
type Resolver struct {
	store IdentityStore
}

// NewResolver returns a Resolver backed by the given store.
func NewResolver(store IdentityStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve performs the compare-and-create described above.
func (r *Resolver) Resolve(ctx context.Context, name, typ, description string) (Resolution, error) {
	existing, err := r.store.FindActiveByIdentity(ctx, name, typ)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve %s/%s: %w", name, typ, err)
	}
	if existing != nil {
		if existing.Description != description {
			return Resolution{}, ErrDescriptionMismatch
		}
		return Resolution{ID: existing.ID}, nil
	}
	created, err := r.store.CreateRecord(ctx, name, typ, description)
	if err != nil {
		return Resolution{}, fmt.Errorf("create %s/%s: %w", name, typ, err)
	}
	return Resolution{ID: created.ID, Created: true}, nil
}
