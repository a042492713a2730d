package domain

import (
	"context"
	"encoding/json"
	"time"
)

// AuditEntry records a single change to a persisted entity. The log is
// append-only; entries are never mutated or deleted.
type AuditEntry struct {
	ID        string          `json:"id"`
	Entity    string          `json:"entity"`
	EntityID  int64           `json:"entityId"`
	OldValue  json.RawMessage `json:"oldValue"`
	NewValue  json.RawMessage `json:"newValue"`
	ChangedBy string          `json:"changedBy"`
	ChangedAt time.Time       `json:"changedAt"`
}

// AuditRepository is the port for the audit trail.
type AuditRepository interface {
	Append(ctx context.Context, entry AuditEntry) error
	// List returns entries newest first. Empty entity or zero entityID
	// disables the respective filter.
	List(ctx context.Context, entity string, entityID int64, limit int) ([]AuditEntry, error)
}
