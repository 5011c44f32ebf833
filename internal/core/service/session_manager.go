package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/order-tracking/internal/api/metrics"
	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

const (
	sessionIDBytes  = 32
	minSecretLength = 16
)

// sessionClaims is the signed envelope around a session id. The table, not
// the claims, is authoritative: a token only resolves while its id is in
// the table.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManagerConfig configures token signing and lifetime.
type SessionManagerConfig struct {
	Secret string
	// TTL <= 0 means sessions live until they are invalidated.
	TTL time.Duration
}

// SessionManager issues HS256-signed tokens over random session ids.
type SessionManager struct {
	repo   ports.SessionRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

func NewSessionManager(repo ports.SessionRepository, cfg SessionManagerConfig) (*SessionManager, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", minSecretLength)
	}
	return &SessionManager{
		repo:   repo,
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
		random: rand.Reader,
	}, nil
}

// Create stores a new session for identity with role fixed at this moment
// and returns its token.
func (m *SessionManager) Create(ctx context.Context, identity string, role domain.Role) (string, *domain.Session, error) {
	id, err := m.newID()
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	now := m.now().UTC()
	session := &domain.Session{
		ID:       id,
		Identity: identity,
		Role:     role,
		IssuedAt: now,
	}
	claims := sessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       id,
			Subject:  identity,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.ttl > 0 {
		session.ExpiresAt = now.Add(m.ttl)
		claims.ExpiresAt = jwt.NewNumericDate(session.ExpiresAt)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}

	if err := m.repo.Save(ctx, session); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}
	m.reportActive(ctx)

	return token, session, nil
}

// Resolve returns the live session behind token or domain.ErrUnauthenticated.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	id, err := m.sessionID(token)
	if err != nil {
		return nil, err
	}

	session, err := m.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	if session.Expired(m.now()) {
		if err := m.repo.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("drop expired session: %w", err)
		}
		m.reportActive(ctx)
		return nil, domain.ErrUnauthenticated
	}

	return session, nil
}

// Invalidate ends the session behind token. Tokens that are malformed,
// unknown or already invalidated are ignored.
func (m *SessionManager) Invalidate(ctx context.Context, token string) error {
	id, err := m.sessionID(token)
	if err != nil {
		return nil
	}
	if err := m.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	m.reportActive(ctx)
	return nil
}

// Active returns the number of sessions in the table.
func (m *SessionManager) Active(ctx context.Context) (int, error) {
	return m.repo.Count(ctx)
}

// sessionID verifies the token signature and extracts the session id.
// Expiry is judged against the stored session instead of the claims.
func (m *SessionManager) sessionID(token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthenticated
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, m.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.ID, nil
}

func (m *SessionManager) key(*jwt.Token) (any, error) {
	return m.secret, nil
}

func (m *SessionManager) newID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := io.ReadFull(m.random, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (m *SessionManager) reportActive(ctx context.Context) {
	if n, err := m.repo.Count(ctx); err == nil {
		metrics.SessionsActive.Set(float64(n))
	}
}
