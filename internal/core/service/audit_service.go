package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-tracking/internal/api/metrics"
	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that logs every event and, when
// repo is non-nil, persists it.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process writes a single audit event.
func (s *auditService) Process(ctx context.Context, ev domain.AuditEvent) error {
	entry := s.log.Info().
		Str("action", string(ev.Action)).
		Str("actor", ev.Actor).
		Time("occurred_at", ev.OccurredAt)
	if ev.OrderID != 0 {
		entry = entry.Int64("order_id", ev.OrderID)
	}
	if ev.Detail != "" {
		entry = entry.Str("detail", ev.Detail)
	}
	entry.Msg("audit")

	if s.repo != nil {
		if err := s.repo.InsertEvent(ctx, &ev); err != nil {
			metrics.AuditEventsErrorsTotal.Inc()
			return fmt.Errorf("process audit event: %w", err)
		}
	}

	metrics.AuditEventsProcessedTotal.WithLabelValues(string(ev.Action)).Inc()
	return nil
}
