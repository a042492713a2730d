package postgres

import (
	"context"
	"fmt"

	"weightbattle/internal/domain"
)

// AuditRepo implements the append-only audit trail.
type AuditRepo struct {
	db *DB
}

// NewAuditRepo creates the audit repository view of the store.
func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Append adds an entry to the audit log.
func (r *AuditRepo) Append(ctx context.Context, entry domain.AuditEntry) error {
	var oldValue, newValue any
	if entry.OldValue != nil {
		oldValue = string(entry.OldValue)
	}
	if entry.NewValue != nil {
		newValue = string(entry.NewValue)
	}
	_, err := r.db.sql.ExecContext(ctx,
		"INSERT INTO audit_log(id, entity, entity_id, old_value, new_value, changed_by, changed_at) VALUES($1, $2, $3, $4, $5, $6, $7);",
		entry.ID, entry.Entity, entry.EntityID, oldValue, newValue, entry.ChangedBy, entry.ChangedAt.UTC())
	return err
}

// List returns entries newest first, optionally filtered by entity and id.
func (r *AuditRepo) List(ctx context.Context, entity string, entityID int64, limit int) ([]domain.AuditEntry, error) {
	query := "SELECT id, entity, entity_id, old_value, new_value, changed_by, changed_at FROM audit_log WHERE 1=1"
	args := make([]any, 0, 3)
	if entity != "" {
		args = append(args, entity)
		query += fmt.Sprintf(" AND entity=$%d", len(args))
	}
	if entityID != 0 {
		args = append(args, entityID)
		query += fmt.Sprintf(" AND entity_id=$%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY changed_at DESC LIMIT $%d;", len(args))

	rows, err := r.db.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.AuditEntry, 0, limit)
	for rows.Next() {
		var e domain.AuditEntry
		var oldValue, newValue *string
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &oldValue, &newValue, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		if oldValue != nil {
			e.OldValue = []byte(*oldValue)
		}
		if newValue != nil {
			e.NewValue = []byte(*newValue)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Interface assertions for the whole adapter.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.WeighInRepository = (*DB)(nil)
var _ domain.ConfigRepository = (*DB)(nil)
var _ domain.PotRepository = (*PotRepo)(nil)
var _ domain.AuditRepository = (*AuditRepo)(nil)
