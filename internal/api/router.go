package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/order-tracking/internal/api/handler"
	"github.com/99minutos/order-tracking/internal/api/middleware"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

const serviceName = "order-tracking"

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	Tracker ports.Tracker
	Logger  zerolog.Logger
	Env     string
	Cookie  handler.CookieConfig
	// Readiness lists the external dependencies probed by /health/ready.
	Readiness map[string]handler.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = "session"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// HTTP metrics live in a per-router registry; business metrics stay on
	// the default one. Both are exposed together.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(cfg.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "orders",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/health") || c.Path() == "/metrics/prometheus"
		},
	}))

	// --- Handlers ---
	infoHandler := handler.NewInfoHandler(serviceName, cfg.Env)
	authHandler := handler.NewAuthHandler(cfg.Tracker, cfg.Cookie)
	orderHandler := handler.NewOrderHandler(cfg.Tracker)
	accountHandler := handler.NewAccountHandler(cfg.Tracker)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.Readiness)

	session := middleware.SessionToken(cfg.Cookie.Name)

	// --- Public routes ---
	e.GET("/", infoHandler.Index)
	e.GET("/docs", infoHandler.Docs)
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics/prometheus", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, middleware.OptionalSessionToken(cfg.Cookie.Name))

	// --- Session routes; the access gate behind the tracker enforces them ---
	e.GET("/profile", accountHandler.Profile, session)
	e.GET("/dashboard", accountHandler.Dashboard, session)
	e.POST("/orders", orderHandler.Create, session)
	e.GET("/orders", orderHandler.List, session)
	e.GET("/orders/:id", orderHandler.Get, session)
	e.GET("/metrics", accountHandler.Metrics, session)

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
