package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Event is a globally shared catalog entity identified by (Name, Type). Its
// PropertyIDs reference property records; soft-deleted references are filtered
// on read paths, never purged at write time.
type Event struct {
	ID          string
	Name        string
	Type        string
	Description string
	PropertyIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Deleted reports whether the event carries a tombstone.
func (e *Event) Deleted() bool { return e.DeletedAt != nil }

// Validate validates the event for persistence against the allowed type set.
func (e *Event) Validate(types Types) error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.Description == "" {
		return errors.New("description is required")
	}
	if !types.Contains(e.Type) {
		return errors.New("unrecognized event type " + e.Type)
	}
	return nil
}

// Types is the set of recognized event types. The exact members are a
// deployment concern, configured at startup.
type Types struct {
	members map[string]struct{}
}

// DefaultTypes are the event types recognized when none are configured.
var DefaultTypes = []string{"track", "page", "screen", "identify"}

// NewTypes builds a type set from the given members; empty or all-blank input
// falls back to DefaultTypes.
func NewTypes(members []string) Types {
	set := make(map[string]struct{}, len(members))
	for _, m := range members {
		if m = strings.TrimSpace(m); m != "" {
			set[m] = struct{}{}
		}
	}
	if len(set) == 0 {
		for _, m := range DefaultTypes {
			set[m] = struct{}{}
		}
	}
	return Types{members: set}
}

// Contains reports whether t is a recognized event type.
func (ts Types) Contains(t string) bool {
	_, ok := ts.members[t]
	return ok
}

// String lists the members sorted, for error messages.
func (ts Types) String() string {
	out := make([]string, 0, len(ts.members))
	for m := range ts.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
