// Package gate is the access check in front of every protected operation.
//
// An operation is written against an already resolved session:
//
//	func(ctx context.Context, s *domain.Session, args A) (R, error)
//
// Protect turns it into a function of the caller's session token. The
// guarded function resolves the token, applies the role policy and only then
// runs the operation, so a rejected call never has side effects.
package gate

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-tracking/internal/api/metrics"
	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

// Operation is a protected use case, called with the resolved session.
type Operation[A, R any] func(ctx context.Context, session *domain.Session, args A) (R, error)

// Guarded is an Operation behind the gate, called with a raw session token.
type Guarded[A, R any] func(ctx context.Context, token string, args A) (R, error)

// Gate resolves session tokens and enforces role policies.
type Gate struct {
	sessions ports.SessionResolver
	log      zerolog.Logger
}

func New(sessions ports.SessionResolver, log zerolog.Logger) *Gate {
	return &Gate{sessions: sessions, log: log}
}

// Option configures the policy of a single protected operation.
type Option func(*policy)

// RequireRole restricts an operation to sessions holding one of roles.
// Without it any authenticated session passes.
func RequireRole(roles ...domain.Role) Option {
	return func(p *policy) {
		if p.roles == nil {
			p.roles = make(map[domain.Role]struct{}, len(roles))
		}
		for _, r := range roles {
			p.roles[r] = struct{}{}
		}
	}
}

type policy struct {
	roles map[domain.Role]struct{}
}

func newPolicy(opts []Option) policy {
	var p policy
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p policy) allows(role domain.Role) bool {
	if p.roles == nil {
		return true
	}
	_, ok := p.roles[role]
	return ok
}

// Authorize resolves token and checks it against opts. It returns
// domain.ErrUnauthenticated or domain.ErrForbidden on rejection.
func (g *Gate) Authorize(ctx context.Context, token string, opts ...Option) (*domain.Session, error) {
	return g.authorize(ctx, token, newPolicy(opts))
}

func (g *Gate) authorize(ctx context.Context, token string, p policy) (*domain.Session, error) {
	if token == "" {
		metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
		return nil, domain.ErrUnauthenticated
	}

	session, err := g.sessions.Resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			g.log.Warn().Err(err).Msg("session resolve failed")
		}
		metrics.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
		return nil, domain.ErrUnauthenticated
	}

	if !p.allows(session.Role) {
		g.log.Debug().
			Str("identity", session.Identity).
			Str("role", string(session.Role)).
			Msg("access forbidden")
		metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	return session, nil
}

// Protect wraps op with the gate. The policy is fixed when Protect is called.
func Protect[A, R any](g *Gate, op Operation[A, R], opts ...Option) Guarded[A, R] {
	p := newPolicy(opts)
	return func(ctx context.Context, token string, args A) (R, error) {
		session, err := g.authorize(ctx, token, p)
		if err != nil {
			var zero R
			return zero, err
		}
		return op(ctx, session, args)
	}
}
