package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/order-tracking/internal/api/metrics"
	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

// AuthService implements login and logout.
type AuthService struct {
	creds    ports.CredentialStore
	sessions ports.SessionManager
	audit    ports.AuditPublisher
	log      zerolog.Logger
}

func NewAuthService(creds ports.CredentialStore, sessions ports.SessionManager, audit ports.AuditPublisher, log zerolog.Logger) *AuthService {
	if audit == nil {
		audit = nopPublisher{}
	}
	return &AuthService{creds: creds, sessions: sessions, audit: audit, log: log}
}

// Login validates the credentials and opens a session. Every credential
// failure is reported as domain.ErrAuthFailed.
func (s *AuthService) Login(ctx context.Context, identity, secret string) (string, *domain.Session, error) {
	if identity == "" || secret == "" {
		s.loginFailed(identity)
		return "", nil, domain.ErrAuthFailed
	}

	user, err := s.creds.Authenticate(ctx, identity, secret)
	if err != nil {
		s.loginFailed(identity)
		if errors.Is(err, domain.ErrAuthFailed) {
			return "", nil, domain.ErrAuthFailed
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	token, session, err := s.sessions.Create(ctx, user.Identity, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("identity", user.Identity).Str("role", string(user.Role)).Msg("user logged in")
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditLogin,
		Actor:      user.Identity,
		OccurredAt: session.IssuedAt,
	})

	return token, session, nil
}

// Logout invalidates token. It succeeds for tokens that are already gone.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	// Only used to attribute the logout; failure is fine.
	session, _ := s.sessions.Resolve(ctx, token)

	if err := s.sessions.Invalidate(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	if session != nil {
		s.log.Info().Str("identity", session.Identity).Msg("user logged out")
		s.audit.Publish(domain.AuditEvent{
			Action:     domain.AuditLogout,
			Actor:      session.Identity,
			OccurredAt: time.Now().UTC(),
		})
	}
	return nil
}

func (s *AuthService) loginFailed(identity string) {
	metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
	s.log.Warn().Str("identity", identity).Msg("failed login attempt")
	s.audit.Publish(domain.AuditEvent{
		Action:     domain.AuditLoginFailed,
		Actor:      identity,
		OccurredAt: time.Now().UTC(),
	})
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.AuditEvent) {}
