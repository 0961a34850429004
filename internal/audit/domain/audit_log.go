package domain

import "time"

// AuditLog records one catalog mutation (create, update, or delete of a
// property, event, or tracking plan).
type AuditLog struct {
	ID         string
	EntityKind string
	EntityID   string
	Action     string
	Detail     string
	CreatedAt  time.Time
}
