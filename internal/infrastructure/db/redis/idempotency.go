package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/order-tracking/internal/core/ports"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a claim without an order blocks its key.
	pendingTTL    = 30 * time.Second
	pendingMarker = "pending"
)

// releaseScript deletes the key only while it still holds the pending marker.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// IdempotencyStore implements ports.IdempotencyStore on Redis.
// Key format: idempotency:<identity>:<key>
// Value: the order id, or "pending" while the claiming request runs.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. Keys expire after ttl, or a day when ttl <= 0.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) ports.IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim reserves key with SET NX. A lost race reads back the current value.
func (s *IdempotencyStore) Claim(ctx context.Context, identity, key string) (int64, bool, error) {
	k := idempotencyKey(identity, key)
	ok, err := s.client.SetNX(ctx, k, pendingMarker, pendingTTL).Result()
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return 0, true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) || val == pendingMarker {
		// expired between the two calls, or still in flight
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency claim: corrupt value %q: %w", val, err)
	}
	return id, false, nil
}

// Remember replaces the pending marker with orderID for the full TTL.
func (s *IdempotencyStore) Remember(ctx context.Context, identity, key string, orderID int64) error {
	if err := s.client.Set(ctx, idempotencyKey(identity, key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, identity, key string) error {
	if err := releaseScript.Run(ctx, s.client, []string{idempotencyKey(identity, key)}, pendingMarker).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func idempotencyKey(identity, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", identity, key)
}
