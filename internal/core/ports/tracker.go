package ports

import (
	"context"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// DashboardView is the per-session summary shown after login.
type DashboardView struct {
	Identity      string
	Role          domain.Role
	VisibleOrders int
	UserCount     int
	UptimeSeconds int64
}

// Tracker is the token-facing contract consumed by the transport layer.
// Every method except Login and Logout runs behind the access gate and can
// fail with domain.ErrUnauthenticated; Metrics can also fail with
// domain.ErrForbidden.
type Tracker interface {
	Login(ctx context.Context, identity, secret string) (string, *domain.Session, error)
	Logout(ctx context.Context, token string) error
	CreateOrder(ctx context.Context, token string, input CreateOrderInput) (*CreateOrderResult, error)
	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
	GetOrder(ctx context.Context, token string, id int64) (*domain.Order, error)
	Metrics(ctx context.Context, token string) (*domain.Snapshot, error)
	Profile(ctx context.Context, token string) (*domain.Session, error)
	Dashboard(ctx context.Context, token string) (*DashboardView, error)
}
