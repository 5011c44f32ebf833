package ports

import (
	"context"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// AuditRepository persists audit events outside the process.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService processes one audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// AuditPublisher hands audit events off for asynchronous processing.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}
