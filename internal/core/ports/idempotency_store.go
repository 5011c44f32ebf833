package ports

import "context"

// IdempotencyStore remembers which order an Idempotency-Key produced.
// Keys are scoped per identity so two users cannot collide.
type IdempotencyStore interface {
	// Claim atomically reserves key for the caller. When the key is already
	// taken it returns claimed=false with the recorded order id, which is 0
	// while the request holding the claim has not finished.
	Claim(ctx context.Context, identity, key string) (orderID int64, claimed bool, err error)
	// Remember records the order created under a claimed key.
	Remember(ctx context.Context, identity, key string, orderID int64) error
	// Release drops a claim that did not produce an order.
	Release(ctx context.Context, identity, key string) error
}
