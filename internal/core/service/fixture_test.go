package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/gate"
	"github.com/99minutos/order-tracking/internal/infrastructure/memory"
)

var discardLogger = zerolog.Nop()

const testSecret = "0123456789abcdef0123456789abcdef"

// recordingPublisher collects audit events synchronously.
type recordingPublisher struct {
	events []domain.AuditEvent
}

func (p *recordingPublisher) Publish(ev domain.AuditEvent) {
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) actions() []domain.AuditAction {
	out := make([]domain.AuditAction, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Action
	}
	return out
}

type fixture struct {
	users    *memory.UserRepository
	creds    *CredentialStore
	sessions *SessionManager
	ledger   *memory.OrderLedger
	idem     *memory.IdempotencyStore
	audit    *recordingPublisher
	auth     *AuthService
	orders   *OrderService
	stats    *MetricsService
	tracker  *Tracker
}

// newFixture wires the real in-memory stack with the demo users
// intern/password123 (member) and admin/admin123 (admin).
func newFixture(t *testing.T) *fixture {
	t.Helper()

	internHash, err := HashSecret("password123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	adminHash, err := HashSecret("admin123", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users, err := memory.NewUserRepository(
		domain.User{Identity: "intern", PasswordHash: internHash, Role: domain.RoleMember},
		domain.User{Identity: "admin", PasswordHash: adminHash, Role: domain.RoleAdmin},
	)
	if err != nil {
		t.Fatalf("users: %v", err)
	}

	creds, err := NewCredentialStore(users, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("credential store: %v", err)
	}
	sessions, err := NewSessionManager(memory.NewSessionRepository(), SessionManagerConfig{Secret: testSecret})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	f := &fixture{
		users:    users,
		creds:    creds,
		sessions: sessions,
		ledger:   memory.NewOrderLedger(),
		idem:     memory.NewIdempotencyStore(time.Hour),
		audit:    &recordingPublisher{},
	}
	f.auth = NewAuthService(f.creds, f.sessions, f.audit, discardLogger)
	f.orders = NewOrderService(f.ledger, f.users, f.idem, f.audit, discardLogger)
	f.stats = NewMetricsService(f.ledger, f.creds, f.sessions, time.Now())
	f.tracker = NewTracker(gate.New(f.sessions, discardLogger), f.auth, f.orders, f.stats)
	return f
}

func (f *fixture) login(t *testing.T, identity, secret string) string {
	t.Helper()
	token, _, err := f.auth.Login(context.Background(), identity, secret)
	if err != nil {
		t.Fatalf("login %s: %v", identity, err)
	}
	return token
}
