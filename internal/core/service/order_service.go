package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-tracking/internal/api/metrics"
	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

const (
	pendingPollInterval = 20 * time.Millisecond
	pendingPollAttempts = 100
)

type OrderService struct {
	ledger ports.OrderLedger
	users  ports.UserRepository
	idem   ports.IdempotencyStore
	audit  ports.AuditPublisher
	logger zerolog.Logger

	// how long a request waits on another one holding its idempotency key
	pollInterval time.Duration
	pollAttempts int
}

func NewOrderService(
	ledger ports.OrderLedger,
	users ports.UserRepository,
	idem ports.IdempotencyStore,
	audit ports.AuditPublisher,
	logger zerolog.Logger,
) *OrderService {
	if audit == nil {
		audit = nopPublisher{}
	}
	return &OrderService{
		ledger:       ledger,
		users:        users,
		idem:         idem,
		audit:        audit,
		logger:       logger,
		pollInterval: pendingPollInterval,
		pollAttempts: pendingPollAttempts,
	}
}

// CreateOrder appends a new order created by the session's identity. If an
// idempotency key is provided and already used, the earlier order is returned
// without side effects. Concurrent calls with the same key create one order.
func (s *OrderService) CreateOrder(ctx context.Context, session *domain.Session, input ports.CreateOrderInput) (res *ports.CreateOrderResult, err error) {
	key := input.IdempotencyKey
	if key != "" && s.idem != nil {
		existing, owned, claimErr := s.claim(ctx, session.Identity, key)
		if claimErr != nil {
			return nil, claimErr
		}
		if existing != nil {
			metrics.OrdersIdempotentReplaysTotal.Inc()
			return &ports.CreateOrderResult{Order: existing, AlreadyExisted: true}, nil
		}
		if !owned {
			key = ""
		} else {
			defer func() {
				if err != nil {
					s.release(context.WithoutCancel(ctx), session.Identity, key)
				}
			}()
		}
	}

	// The creator has to be a known user at creation time.
	if _, err := s.users.FindByIdentity(ctx, session.Identity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("create order: unknown creator %q: %w", session.Identity, domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	order, err := s.ledger.Insert(ctx, domain.OrderDraft{
		Product:   strings.TrimSpace(input.Product),
		Quantity:  input.Quantity,
		Price:     input.Price,
		CreatedBy: session.Identity,
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.OrdersRejectedTotal.Inc()
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	if key != "" {
		if err := s.idem.Remember(ctx, session.Identity, key, order.ID); err != nil {
			s.logger.Warn().Err(err).Int64("order_id", order.ID).Msg("failed to store idempotency key")
		}
	}

	metrics.OrdersCreatedTotal.WithLabelValues(string(session.Role)).Inc()
	s.logger.Info().
		Int64("order_id", order.ID).
		Str("product", order.Product).
		Str("created_by", order.CreatedBy).
		Msg("order created")
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditOrderCreated,
		Actor:      order.CreatedBy,
		OrderID:    order.ID,
		Detail:     order.Product,
		OccurredAt: order.CreatedAt,
	})

	return &ports.CreateOrderResult{Order: order}, nil
}

// claim reserves key for this call. It returns the earlier order when the key
// was already used, or owned=true when the caller must create the order.
// Neither means the store is unusable and the order is created without a key.
// While another call holds the key it polls until that call finishes, and
// gives up with domain.ErrConflict.
func (s *OrderService) claim(ctx context.Context, identity, key string) (*domain.Order, bool, error) {
	for attempt := 0; ; attempt++ {
		id, claimed, err := s.idem.Claim(ctx, identity, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("identity", identity).Msg("idempotency claim failed, creating anyway")
			return nil, false, nil
		}
		if claimed {
			return nil, true, nil
		}
		if id > 0 {
			order, err := s.ledger.Get(ctx, id)
			if err != nil || order.CreatedBy != identity {
				// recorded before a restart, the ledger no longer has it
				s.logger.Warn().Str("idempotency_key", key).Int64("order_id", id).Msg("stale idempotency key, creating anyway")
				return nil, false, nil
			}
			s.logger.Info().Str("idempotency_key", key).Int64("order_id", id).Msg("idempotent replay")
			return order, false, nil
		}

		if attempt >= s.pollAttempts {
			return nil, false, fmt.Errorf("create order: idempotency key %q: %w", key, domain.ErrConflict)
		}
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *OrderService) release(ctx context.Context, identity, key string) {
	if err := s.idem.Release(ctx, identity, key); err != nil {
		s.logger.Warn().Err(err).Str("identity", identity).Msg("failed to release idempotency key")
	}
}

// ListOrders returns every order visible to the session in creation order.
func (s *OrderService) ListOrders(ctx context.Context, session *domain.Session) ([]domain.Order, error) {
	return slices.Collect(s.ledger.ListFor(ctx, session.Identity, session.Role)), nil
}

// GetOrder returns one order. Orders outside the session's scope are
// reported as not found, the same as ids that do not exist.
func (s *OrderService) GetOrder(ctx context.Context, session *domain.Session, id int64) (*domain.Order, error) {
	order, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.VisibleTo(session.Identity, session.Role) {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) CountVisible(ctx context.Context, session *domain.Session) (int, error) {
	if session.IsAdmin() {
		return s.ledger.Count(ctx)
	}
	n := 0
	for range s.ledger.ListFor(ctx, session.Identity, session.Role) {
		n++
	}
	return n, nil
}
