package app

import (
	"context"

	"weightbattle/internal/domain"
)

// AuditService exposes the read side of the append-only audit trail.
type AuditService struct {
	audit domain.AuditRepository
}

// NewAuditService creates an AuditService backed by the given repository.
func NewAuditService(audit domain.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

// List returns audit entries newest first, optionally filtered by entity
// type and id.
func (s *AuditService) List(ctx context.Context, entity string, entityID int64, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.audit.List(ctx, entity, entityID, limit)
}
