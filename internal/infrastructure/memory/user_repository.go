package memory

import (
	"context"
	"fmt"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// UserRepository is a fixed user table built once at startup. It is never
// written after construction, so reads need no locking.
type UserRepository struct {
	users map[string]domain.User
}

// NewUserRepository builds the table, rejecting duplicate identities and
// unknown roles.
func NewUserRepository(users ...domain.User) (*UserRepository, error) {
	r := &UserRepository{users: make(map[string]domain.User, len(users))}
	for _, u := range users {
		if u.Identity == "" {
			return nil, fmt.Errorf("user table: empty identity")
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("user table: %q has unknown role %q", u.Identity, u.Role)
		}
		if _, dup := r.users[u.Identity]; dup {
			return nil, fmt.Errorf("user table: duplicate identity %q", u.Identity)
		}
		r.users[u.Identity] = u
	}
	return r, nil
}

func (r *UserRepository) FindByIdentity(_ context.Context, identity string) (*domain.User, error) {
	u, ok := r.users[identity]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) Count(_ context.Context) (int, error) {
	return len(r.users), nil
}
