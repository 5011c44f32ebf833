package memory

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// OrderLedger is the in-process order ledger. Ids start at 1 and are
// contiguous, so order n lives at index n-1.
type OrderLedger struct {
	mu     sync.RWMutex
	orders []domain.Order
	nextID int64

	now func() time.Time
}

func NewOrderLedger() *OrderLedger {
	return &OrderLedger{nextID: 1, now: time.Now}
}

// Insert validates before taking the lock, so a rejected draft never sees
// (or burns) an id.
func (l *OrderLedger) Insert(_ context.Context, draft domain.OrderDraft) (*domain.Order, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	o := domain.Order{
		ID:        l.nextID,
		Product:   draft.Product,
		Quantity:  draft.Quantity,
		Price:     draft.Price,
		CreatedBy: draft.CreatedBy,
		CreatedAt: l.now().UTC(),
		Status:    domain.StatusCompleted,
	}
	l.orders = append(l.orders, o)
	l.nextID++

	return &o, nil
}

func (l *OrderLedger) Get(_ context.Context, id int64) (*domain.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if id < 1 || id > int64(len(l.orders)) {
		return nil, domain.ErrNotFound
	}
	o := l.orders[id-1]
	return &o, nil
}

// ListFor snapshots the ledger length when iteration starts. Entries below
// that length are never written again, so they can be read after the lock
// is released.
func (l *OrderLedger) ListFor(_ context.Context, identity string, role domain.Role) iter.Seq[domain.Order] {
	return func(yield func(domain.Order) bool) {
		l.mu.RLock()
		snapshot := l.orders[:len(l.orders):len(l.orders)]
		l.mu.RUnlock()

		for i := range snapshot {
			if !snapshot[i].VisibleTo(identity, role) {
				continue
			}
			if !yield(snapshot[i]) {
				return
			}
		}
	}
}

func (l *OrderLedger) Count(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders), nil
}
