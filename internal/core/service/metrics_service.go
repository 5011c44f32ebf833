package service

import (
	"context"
	"fmt"
	"time"

	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

// MetricsService builds the admin health snapshot. It only reads.
type MetricsService struct {
	ledger    ports.OrderLedger
	creds     ports.CredentialStore
	sessions  ports.SessionManager
	startedAt time.Time
	now       func() time.Time
}

func NewMetricsService(ledger ports.OrderLedger, creds ports.CredentialStore, sessions ports.SessionManager, startedAt time.Time) *MetricsService {
	return &MetricsService{
		ledger:    ledger,
		creds:     creds,
		sessions:  sessions,
		startedAt: startedAt,
		now:       time.Now,
	}
}

func (s *MetricsService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	orders, err := s.ledger.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: count orders: %w", err)
	}
	users, err := s.creds.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: count users: %w", err)
	}
	active, err := s.sessions.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: count sessions: %w", err)
	}

	now := s.now()
	return &domain.Snapshot{
		Timestamp:      now.UTC(),
		UptimeSeconds:  int64(now.Sub(s.startedAt) / time.Second),
		OrderCount:     orders,
		UserCount:      users,
		ActiveSessions: active,
	}, nil
}
