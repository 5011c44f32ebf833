package ports

import (
	"context"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// UserRepository is the read-only user table behind the credential store.
type UserRepository interface {
	// FindByIdentity returns domain.ErrNotFound for unknown identities.
	FindByIdentity(ctx context.Context, identity string) (*domain.User, error)
	Count(ctx context.Context) (int, error)
}
