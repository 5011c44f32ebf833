package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/order-tracking/internal/api/middleware"
	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

// stubTracker implements ports.Tracker; unset functions panic when called.
type stubTracker struct {
	loginFn       func(ctx context.Context, identity, secret string) (string, *domain.Session, error)
	logoutFn      func(ctx context.Context, token string) error
	createOrderFn func(ctx context.Context, token string, input ports.CreateOrderInput) (*ports.CreateOrderResult, error)
	listOrdersFn  func(ctx context.Context, token string) ([]domain.Order, error)
	getOrderFn    func(ctx context.Context, token string, id int64) (*domain.Order, error)
	metricsFn     func(ctx context.Context, token string) (*domain.Snapshot, error)
	profileFn     func(ctx context.Context, token string) (*domain.Session, error)
	dashboardFn   func(ctx context.Context, token string) (*ports.DashboardView, error)
}

func (s *stubTracker) Login(ctx context.Context, identity, secret string) (string, *domain.Session, error) {
	return s.loginFn(ctx, identity, secret)
}

func (s *stubTracker) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubTracker) CreateOrder(ctx context.Context, token string, input ports.CreateOrderInput) (*ports.CreateOrderResult, error) {
	return s.createOrderFn(ctx, token, input)
}

func (s *stubTracker) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	return s.listOrdersFn(ctx, token)
}

func (s *stubTracker) GetOrder(ctx context.Context, token string, id int64) (*domain.Order, error) {
	return s.getOrderFn(ctx, token, id)
}

func (s *stubTracker) Metrics(ctx context.Context, token string) (*domain.Snapshot, error) {
	return s.metricsFn(ctx, token)
}

func (s *stubTracker) Profile(ctx context.Context, token string) (*domain.Session, error) {
	return s.profileFn(ctx, token)
}

func (s *stubTracker) Dashboard(ctx context.Context, token string) (*ports.DashboardView, error) {
	return s.dashboardFn(ctx, token)
}

// newContext builds an echo context for method/path with an optional JSON
// body and session token.
func newContext(method, path, body, token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if token != "" {
		c.Set(middleware.TokenKey, token)
	}
	return c, rec
}
