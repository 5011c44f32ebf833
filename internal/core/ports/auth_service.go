package ports

import (
	"context"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// CredentialStore validates login attempts.
type CredentialStore interface {
	Validate(ctx context.Context, identity, secret string) bool
	Authenticate(ctx context.Context, identity, secret string) (*domain.User, error)
	Count(ctx context.Context) (int, error)
}

// SessionResolver turns a session token into its session, failing with
// domain.ErrUnauthenticated. It is all the access gate needs.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// SessionManager issues, resolves and invalidates session tokens.
type SessionManager interface {
	SessionResolver
	Create(ctx context.Context, identity string, role domain.Role) (string, *domain.Session, error)
	Invalidate(ctx context.Context, token string) error
	Active(ctx context.Context) (int, error)
}

// AuthService is the login/logout use case.
type AuthService interface {
	Login(ctx context.Context, identity, secret string) (string, *domain.Session, error)
	Logout(ctx context.Context, token string) error
}
