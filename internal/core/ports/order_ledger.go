package ports

import (
	"context"
	"iter"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// OrderLedger is the append-only order collection.
type OrderLedger interface {
	// Insert validates the draft, then assigns the next id and appends the
	// order as one atomic step. Rejected drafts never consume an id.
	Insert(ctx context.Context, draft domain.OrderDraft) (*domain.Order, error)
	// Get returns domain.ErrNotFound for ids never assigned.
	Get(ctx context.Context, id int64) (*domain.Order, error)
	// ListFor yields the orders visible to identity/role in insertion order.
	// The sequence holds no cursor; ranging over it again starts over.
	ListFor(ctx context.Context, identity string, role domain.Role) iter.Seq[domain.Order]
	Count(ctx context.Context) (int, error)
}
