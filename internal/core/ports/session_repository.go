package ports

import (
	"context"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// SessionRepository is the session table, keyed by session id.
// Implementations must be safe for concurrent use.
type SessionRepository interface {
	Save(ctx context.Context, session *domain.Session) error
	// Find returns domain.ErrNotFound when the id is unknown or was deleted.
	Find(ctx context.Context, id string) (*domain.Session, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
