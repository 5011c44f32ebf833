package memory

import (
	"context"
	"sync"
	"time"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a claim without an order blocks its key.
	pendingTTL = 30 * time.Second
)

// idempotencyEntry with orderID 0 is a claim still in flight.
type idempotencyEntry struct {
	orderID   int64
	expiresAt time.Time
}

// IdempotencyStore is the fallback used when Redis is not configured.
// Expired keys are dropped lazily.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{
		entries: make(map[string]idempotencyEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *IdempotencyStore) Claim(_ context.Context, identity, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scopedKey(identity, key)
	now := s.now()
	if e, ok := s.entries[k]; ok && now.Before(e.expiresAt) {
		return e.orderID, false, nil
	}
	s.entries[k] = idempotencyEntry{expiresAt: now.Add(pendingTTL)}
	return 0, true, nil
}

func (s *IdempotencyStore) Remember(_ context.Context, identity, key string, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[scopedKey(identity, key)] = idempotencyEntry{orderID: orderID, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Release only drops pending claims; a recorded order id is kept.
func (s *IdempotencyStore) Release(_ context.Context, identity, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := scopedKey(identity, key)
	if e, ok := s.entries[k]; ok && e.orderID == 0 {
		delete(s.entries, k)
	}
	return nil
}

func scopedKey(identity, key string) string {
	return identity + "\x00" + key
}
