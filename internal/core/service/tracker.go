package service

import (
	"context"
	"fmt"

	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/gate"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

// Tracker composes the use cases behind the access gate. New protected
// operations are added by wrapping them with gate.Protect in NewTracker.
type Tracker struct {
	auth ports.AuthService

	createOrder gate.Guarded[ports.CreateOrderInput, *ports.CreateOrderResult]
	listOrders  gate.Guarded[struct{}, []domain.Order]
	getOrder    gate.Guarded[int64, *domain.Order]
	metrics     gate.Guarded[struct{}, *domain.Snapshot]
	profile     gate.Guarded[struct{}, *domain.Session]
	dashboard   gate.Guarded[struct{}, *ports.DashboardView]
}

func NewTracker(g *gate.Gate, auth ports.AuthService, orders ports.OrderService, stats ports.MetricsService) *Tracker {
	return &Tracker{
		auth: auth,

		createOrder: gate.Protect(g, orders.CreateOrder),
		listOrders: gate.Protect(g, func(ctx context.Context, s *domain.Session, _ struct{}) ([]domain.Order, error) {
			return orders.ListOrders(ctx, s)
		}),
		getOrder: gate.Protect(g, orders.GetOrder),
		metrics: gate.Protect(g, func(ctx context.Context, _ *domain.Session, _ struct{}) (*domain.Snapshot, error) {
			return stats.Snapshot(ctx)
		}, gate.RequireRole(domain.RoleAdmin)),
		profile: gate.Protect(g, func(_ context.Context, s *domain.Session, _ struct{}) (*domain.Session, error) {
			return s, nil
		}),
		dashboard: gate.Protect(g, func(ctx context.Context, s *domain.Session, _ struct{}) (*ports.DashboardView, error) {
			return dashboard(ctx, s, orders, stats)
		}),
	}
}

func (t *Tracker) Login(ctx context.Context, identity, secret string) (string, *domain.Session, error) {
	return t.auth.Login(ctx, identity, secret)
}

func (t *Tracker) Logout(ctx context.Context, token string) error {
	return t.auth.Logout(ctx, token)
}

func (t *Tracker) CreateOrder(ctx context.Context, token string, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	return t.createOrder(ctx, token, input)
}

func (t *Tracker) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	return t.listOrders(ctx, token, struct{}{})
}

func (t *Tracker) GetOrder(ctx context.Context, token string, id int64) (*domain.Order, error) {
	return t.getOrder(ctx, token, id)
}

func (t *Tracker) Metrics(ctx context.Context, token string) (*domain.Snapshot, error) {
	return t.metrics(ctx, token, struct{}{})
}

func (t *Tracker) Profile(ctx context.Context, token string) (*domain.Session, error) {
	return t.profile(ctx, token, struct{}{})
}

func (t *Tracker) Dashboard(ctx context.Context, token string) (*ports.DashboardView, error) {
	return t.dashboard(ctx, token, struct{}{})
}

// dashboard reports the caller's own order count rather than the ledger
// total, which stays admin-only.
func dashboard(ctx context.Context, s *domain.Session, orders ports.OrderService, stats ports.MetricsService) (*ports.DashboardView, error) {
	visible, err := orders.CountVisible(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	snap, err := stats.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &ports.DashboardView{
		Identity:      s.Identity,
		Role:          s.Role,
		VisibleOrders: visible,
		UserCount:     snap.UserCount,
		UptimeSeconds: snap.UptimeSeconds,
	}, nil
}
