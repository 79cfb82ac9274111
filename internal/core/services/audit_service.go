package services

import (
	"context"

	"libraease/internal/adapters/persistence/models"
	"libraease/internal/adapters/persistence/repositories"
	"libraease/internal/core/domain"
)

// recordAudit appends one immutable audit record through the given
// repository handle. Callers pass the repository from their open unit of
// work, so the audit row commits or rolls back with the mutation it
// documents.
func recordAudit(
	ctx context.Context,
	audits repositories.AuditLogRepository,
	action domain.AuditAction,
	entity string,
	entityID uint,
	performedBy *uint,
	message string,
) error {
	return audits.Create(ctx, &models.AuditLog{
		Action:      string(action),
		Entity:      entity,
		EntityID:    entityID,
		PerformedBy: performedBy,
		Message:     message,
	})
}

// AuditService exposes the read side of the audit trail.
type AuditService struct {
	audits repositories.AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(audits repositories.AuditLogRepository) *AuditService {
	return &AuditService{audits: audits}
}

// ListRecent returns the newest audit records, capped at limit.
func (s *AuditService) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return s.audits.ListRecent(ctx, limit)
}
