package service

import (
	"context"
	"log/slog"
	"strings"

	"transaction_api/internal/broker"
	"transaction_api/internal/domain"
	"transaction_api/internal/logger"
)

// AuditStore persists audit entries.
type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// AuditService handles audit logging
type AuditService struct {
	repo   AuditStore
	logger *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(repo AuditStore, log *slog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: log}
}

// Log records an action on a transaction together with the acting caller
// found in ctx. Storage failures are logged and never surface to the caller.
func (s *AuditService) Log(ctx context.Context, action, entityID string, details map[string]interface{}) {
	entry := &domain.AuditLog{
		Action:    action,
		Category:  domain.AuditCategoryTransaction,
		EntityID:  entityID,
		RequestID: domain.RequestIDFromContext(ctx),
		Details:   details,
	}
	if id := domain.IdentityFromContext(ctx); id != nil {
		entry.ActorUserID = id.UserID
		entry.ActorCompanyID = id.CompanyID
		entry.ActorRole = id.Role
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.WithContext(ctx, s.logger).Error("failed to create audit log", "error", err, "action", action, "entity_id", entityID)
	}
}

// AuditingPublisher records every successfully published transaction event
// in the audit trail.
type AuditingPublisher struct {
	next  broker.Publisher
	audit *AuditService
}

func NewAuditingPublisher(next broker.Publisher, audit *AuditService) *AuditingPublisher {
	return &AuditingPublisher{next: next, audit: audit}
}

func (p *AuditingPublisher) Publish(ctx context.Context, msg broker.Message) error {
	if err := p.next.Publish(ctx, msg); err != nil {
		return err
	}

	var entityID string
	if tx, ok := msg.Payload.(*domain.Transaction); ok && tx != nil {
		entityID = tx.ID.Hex()
	}

	p.audit.Log(ctx, auditAction(msg.RoutingKey), entityID, map[string]interface{}{
		"routing_key": msg.RoutingKey,
		"payload":     msg.Payload,
	})
	return nil
}

// auditAction maps "transaction-api.transaction.created" to "transaction.created".
func auditAction(routingKey string) string {
	if i := strings.Index(routingKey, "."); i >= 0 {
		return routingKey[i+1:]
	}
	return routingKey
}
