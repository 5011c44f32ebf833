package ports

import (
	"context"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// CreateOrderInput is the DTO passed from the transport layer to OrderService.
type CreateOrderInput struct {
	Product  string
	Quantity int
	Price    float64
	// IdempotencyKey is optional; a repeated key returns the first order.
	IdempotencyKey string
}

// CreateOrderResult wraps the created order.
type CreateOrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the Idempotency-Key matched an earlier order.
	AlreadyExisted bool
}

// OrderService defines the order use cases. Every call runs on behalf of an
// already resolved session.
type OrderService interface {
	CreateOrder(ctx context.Context, session *domain.Session, input CreateOrderInput) (*CreateOrderResult, error)
	ListOrders(ctx context.Context, session *domain.Session) ([]domain.Order, error)
	GetOrder(ctx context.Context, session *domain.Session, id int64) (*domain.Order, error)
	// CountVisible counts the orders the session may see.
	CountVisible(ctx context.Context, session *domain.Session) (int, error)
}

// MetricsService aggregates the admin health snapshot.
type MetricsService interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}
