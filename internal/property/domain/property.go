package domain

import (
	"errors"
	"fmt"
	"time"
)

// Property is a globally shared catalog entity identified by (Name, Type).
// Identity is immutable after creation; only Description and the soft-delete
// state change.
type Property struct {
	ID          string
	Name        string
	Type        Type
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Type is the value type a property carries.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// AllTypes lists the valid property types in display order.
func AllTypes() []Type {
	return []Type{TypeString, TypeNumber, TypeBoolean}
}

// ValidType reports whether t is a recognized property type.
func ValidType(t string) bool {
	switch Type(t) {
	case TypeString, TypeNumber, TypeBoolean:
		return true
	}
	return false
}

// Deleted reports whether the property carries a tombstone.
func (p *Property) Deleted() bool { return p.DeletedAt != nil }

// Validate validates the property for persistence. Returns an error describing
// the first validation failure.
func (p *Property) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if !ValidType(string(p.Type)) {
		return fmt.Errorf("invalid property type %q", p.Type)
	}
	return nil
}
