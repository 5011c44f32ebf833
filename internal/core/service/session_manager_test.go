package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/infrastructure/memory"
)

func newTestSessionManager(t *testing.T, ttl time.Duration) *SessionManager {
	t.Helper()
	m, err := NewSessionManager(memory.NewSessionRepository(), SessionManagerConfig{Secret: testSecret, TTL: ttl})
	require.NoError(t, err)
	return m
}

func TestNewSessionManager_RejectsShortSecret(t *testing.T) {
	_, err := NewSessionManager(memory.NewSessionRepository(), SessionManagerConfig{Secret: "short"})
	assert.Error(t, err)
}

func TestSessionManager_Lifecycle(t *testing.T) {
	m := newTestSessionManager(t, 0)
	ctx := context.Background()

	token, created, err := m.Create(ctx, "intern", domain.RoleMember)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, created.ExpiresAt.IsZero())

	s, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "intern", s.Identity)
	assert.Equal(t, domain.RoleMember, s.Role)
	assert.Equal(t, created.IssuedAt, s.IssuedAt)

	// resolving does not consume the session
	_, err = m.Resolve(ctx, token)
	require.NoError(t, err)

	require.NoError(t, m.Invalidate(ctx, token))
	for i := 0; i < 3; i++ {
		_, err = m.Resolve(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	}

	// invalidating again is not an error
	require.NoError(t, m.Invalidate(ctx, token))
	require.NoError(t, m.Invalidate(ctx, "not-a-token"))
	require.NoError(t, m.Invalidate(ctx, ""))
}

func TestSessionManager_TokensAreUniqueAndIndependent(t *testing.T) {
	m := newTestSessionManager(t, 0)
	ctx := context.Background()

	a, _, err := m.Create(ctx, "intern", domain.RoleMember)
	require.NoError(t, err)
	b, _, err := m.Create(ctx, "intern", domain.RoleMember)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	require.NoError(t, m.Invalidate(ctx, a))

	_, err = m.Resolve(ctx, a)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = m.Resolve(ctx, b)
	assert.NoError(t, err)

	n, err := m.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSessionManager_RejectsForgedTokens(t *testing.T) {
	m := newTestSessionManager(t, 0)
	ctx := context.Background()

	token, _, err := m.Create(ctx, "intern", domain.RoleMember)
	require.NoError(t, err)

	other, err := NewSessionManager(memory.NewSessionRepository(), SessionManagerConfig{Secret: strings.Repeat("x", 32)})
	require.NoError(t, err)
	foreign, _, err := other.Create(ctx, "intern", domain.RoleAdmin)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	for _, bad := range []string{"", "garbage", tampered, foreign} {
		_, err := m.Resolve(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, "token %q", bad)
	}
}

func TestSessionManager_Expiry(t *testing.T) {
	m := newTestSessionManager(t, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	token, s, err := m.Create(ctx, "intern", domain.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Minute), s.ExpiresAt)

	now = now.Add(59 * time.Second)
	_, err = m.Resolve(ctx, token)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	n, err := m.Active(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionManager_ConcurrentUse(t *testing.T) {
	m := newTestSessionManager(t, 0)
	ctx := context.Background()

	const n = 50
	tokens := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, _, err := m.Create(ctx, "intern", domain.RoleMember)
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			tokens[i] = token
			if _, err := m.Resolve(ctx, token); err != nil {
				t.Errorf("resolve: %v", err)
			}
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, tok := range tokens {
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token issued")
		seen[tok] = struct{}{}
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Invalidate(ctx, tokens[i])
		}()
	}
	wg.Wait()

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.Zero(t, active)
}
