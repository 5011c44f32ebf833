package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

// HashSecret returns the bcrypt digest stored for a user secret.
func HashSecret(secret string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// CredentialStore validates login attempts against the user table.
type CredentialStore struct {
	users ports.UserRepository
	// dummyHash is compared against for unknown identities so both failure
	// paths pay for one bcrypt comparison.
	dummyHash []byte
}

// NewCredentialStore builds a store whose dummy digest uses cost, which
// should match the cost the real digests were made with.
func NewCredentialStore(users ports.UserRepository, cost int) (*CredentialStore, error) {
	filler := make([]byte, 32)
	if _, err := rand.Read(filler); err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword(filler, cost)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}
	return &CredentialStore{users: users, dummyHash: dummy}, nil
}

// Authenticate returns the user for a matching identity/secret pair and
// domain.ErrAuthFailed for everything else.
func (s *CredentialStore) Authenticate(ctx context.Context, identity, secret string) (*domain.User, error) {
	user, err := s.users.FindByIdentity(ctx, identity)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(secret)) != nil || user == nil {
		return nil, domain.ErrAuthFailed
	}
	return user, nil
}

// Validate reports whether identity/secret is a valid pair. It never fails
// loudly; lookup errors count as a mismatch.
func (s *CredentialStore) Validate(ctx context.Context, identity, secret string) bool {
	_, err := s.Authenticate(ctx, identity, secret)
	return err == nil
}

func (s *CredentialStore) Count(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}
