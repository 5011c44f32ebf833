package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DefaultUsers seeds the demo accounts when USERS is unset.
const DefaultUsers = "intern:password123,admin:admin123"

const minSecretLen = 16

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// Users holds identity:secret pairs separated by commas.
	Users         string `env:"USERS"`
	AdminIdentity string `env:"ADMIN_IDENTITY, default=admin"`

	AuditWorkers   int           `env:"AUDIT_WORKERS,   default=4"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,           default=0s"`
	Cookie       string        `env:"SESSION_COOKIE,        default=session"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

// MongoConfig enables the audit trail sink when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=order_tracking"`
}

// RedisConfig moves the idempotency store to Redis when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Users == "" {
		cfg.Users = DefaultUsers
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Credentials parses Users into identity → secret.
func (c *Config) Credentials() (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(c.Users, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		identity, secret, ok := strings.Cut(pair, ":")
		identity = strings.TrimSpace(identity)
		if !ok || identity == "" || secret == "" {
			return nil, fmt.Errorf("USERS: malformed entry %q, want identity:secret", pair)
		}
		if _, dup := out[identity]; dup {
			return nil, fmt.Errorf("USERS: duplicate identity %q", identity)
		}
		out[identity] = secret
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("USERS: no users configured")
	}
	return out, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.AdminIdentity == "" {
		return fmt.Errorf("ADMIN_IDENTITY must not be empty")
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("SESSION_TTL must be >= 0")
	}
	if c.Session.Secret == "" && !c.IsDevelopment() {
		return fmt.Errorf("SESSION_SECRET is required outside development")
	}
	if c.Session.Secret != "" && len(c.Session.Secret) < minSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLen)
	}
	if _, err := c.Credentials(); err != nil {
		return err
	}
	return nil
}
