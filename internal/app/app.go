// Package app wires configuration, storage and transport into a runnable
// service.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/order-tracking/internal/api"
	"github.com/99minutos/order-tracking/internal/api/handler"
	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/gate"
	"github.com/99minutos/order-tracking/internal/core/ports"
	"github.com/99minutos/order-tracking/internal/core/service"
	"github.com/99minutos/order-tracking/internal/infrastructure/db/mongo"
	"github.com/99minutos/order-tracking/internal/infrastructure/db/redis"
	"github.com/99minutos/order-tracking/internal/infrastructure/memory"
	"github.com/99minutos/order-tracking/internal/infrastructure/queue"
	"github.com/99minutos/order-tracking/internal/pkg/config"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 15 * time.Second
	shutdownTimeout = 20 * time.Second
)

type App struct {
	cfg        *config.Config
	log        zerolog.Logger
	echo       *echo.Echo
	dispatcher *queue.Dispatcher
	mongo      *mongodriver.Client
	redis      *goredis.Client
}

// New builds the service from cfg. Mongo and Redis are connected only when
// configured.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	return build(ctx, cfg, log, bcrypt.DefaultCost)
}

func build(ctx context.Context, cfg *config.Config, log zerolog.Logger, cost int) (*App, error) {
	a := &App{cfg: cfg, log: log}

	users, err := seedUsers(cfg, cost)
	if err != nil {
		return nil, err
	}
	userRepo, err := memory.NewUserRepository(users...)
	if err != nil {
		return nil, fmt.Errorf("create user table: %w", err)
	}
	creds, err := service.NewCredentialStore(userRepo, cost)
	if err != nil {
		return nil, fmt.Errorf("create credential store: %w", err)
	}

	secret := cfg.Session.Secret
	if secret == "" {
		if secret, err = randomSecret(); err != nil {
			return nil, err
		}
		log.Warn().Msg("SESSION_SECRET not set, using a random secret; sessions will not survive a restart")
	}
	sessions, err := service.NewSessionManager(memory.NewSessionRepository(), service.SessionManagerConfig{
		Secret: secret,
		TTL:    cfg.Session.TTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}

	readiness := map[string]handler.DependencyCheck{}

	var auditRepo ports.AuditRepository
	if cfg.Mongo.URI != "" {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		a.mongo = client
		repo := mongo.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit index not created")
		}
		auditRepo = repo
		readiness["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail persisted to mongodb")
	}

	var idem ports.IdempotencyStore = memory.NewIdempotencyStore(cfg.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			a.close(ctx)
			return nil, err
		}
		a.redis = client
		idem = redis.NewIdempotencyStore(client, cfg.IdempotencyTTL)
		readiness["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys stored in redis")
	}

	auditLog := log.With().Str("component", "audit").Logger()
	a.dispatcher = queue.NewDispatcher(cfg.AuditWorkers, service.NewAuditService(auditRepo, auditLog), auditLog)

	ledger := memory.NewOrderLedger()
	auth := service.NewAuthService(creds, sessions, a.dispatcher, log)
	orders := service.NewOrderService(ledger, userRepo, idem, a.dispatcher, log)
	stats := service.NewMetricsService(ledger, creds, sessions, time.Now())
	tracker := service.NewTracker(gate.New(sessions, log), auth, orders, stats)

	a.echo = api.NewRouter(api.RouterConfig{
		Tracker: tracker,
		Logger:  log,
		Env:     cfg.Env,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.Cookie,
			Secure: cfg.Session.CookieSecure,
			TTL:    cfg.Session.TTL,
		},
		Readiness: readiness,
	})

	return a, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.echo
}

// Run serves HTTP and processes audit events until ctx is cancelled, then
// shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+a.cfg.Port)
	if err != nil {
		a.close(context.Background())
		return fmt.Errorf("listen: %w", err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	a.dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		a.dispatcher.Wait()
		a.close(context.Background())
	}()

	server := &http.Server{
		Handler:      a.echo,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", ln.Addr().String()).Msg("http server starting")
		errCh <- server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited: %w", err)
	}
}

func (a *App) close(ctx context.Context) {
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.log.Warn().Err(err).Msg("mongo disconnect")
		}
		a.mongo = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("redis close")
		}
		a.redis = nil
	}
}

// seedUsers hashes the configured credentials. The admin identity gets the
// admin role, everyone else is a member.
func seedUsers(cfg *config.Config, cost int) ([]domain.User, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	identities := make([]string, 0, len(creds))
	for identity := range creds {
		identities = append(identities, identity)
	}
	sort.Strings(identities)

	users := make([]domain.User, 0, len(identities))
	for _, identity := range identities {
		hash, err := service.HashSecret(creds[identity], cost)
		if err != nil {
			return nil, fmt.Errorf("hash secret for %q: %w", identity, err)
		}
		role := domain.RoleMember
		if identity == cfg.AdminIdentity {
			role = domain.RoleAdmin
		}
		users = append(users, domain.User{Identity: identity, PasswordHash: hash, Role: role})
	}
	return users, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
