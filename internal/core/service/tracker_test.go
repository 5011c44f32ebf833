package service

import (
	"context"
	"errors"
	"testing"

	"github.com/99minutos/order-tracking/internal/core/domain"
	"github.com/99minutos/order-tracking/internal/core/ports"
)

func TestTracker_InternAndAdminScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	internToken, session, err := f.tracker.Login(ctx, "intern", "password123")
	if err != nil {
		t.Fatalf("intern login: %v", err)
	}
	if session.Role != domain.RoleMember {
		t.Fatalf("expected member role, got %s", session.Role)
	}

	res, err := f.tracker.CreateOrder(ctx, internToken, ports.CreateOrderInput{Product: "Widget", Quantity: 2, Price: 9.99})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.Order.ID != 1 {
		t.Fatalf("expected id 1, got %d", res.Order.ID)
	}

	mine, err := f.tracker.ListOrders(ctx, internToken)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != 1 || mine[0].CreatedBy != "intern" || mine[0].Status != domain.StatusCompleted {
		t.Fatalf("unexpected intern listing: %+v", mine)
	}

	adminToken, _, err := f.tracker.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if _, err := f.tracker.CreateOrder(ctx, adminToken, ports.CreateOrderInput{Product: "Gadget", Quantity: 1, Price: 5}); err != nil {
		t.Fatalf("admin create: %v", err)
	}

	all, err := f.tracker.ListOrders(ctx, adminToken)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Fatalf("unexpected admin listing: %+v", all)
	}

	mine, _ = f.tracker.ListOrders(ctx, internToken)
	if len(mine) != 1 {
		t.Fatalf("intern must not see admin orders, got %+v", mine)
	}

	snap, err := f.tracker.Metrics(ctx, adminToken)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if snap.OrderCount != 2 || snap.UserCount != 2 || snap.ActiveSessions != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestTracker_UnauthenticatedCallsHaveNoEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token := f.login(t, "intern", "password123")
	if err := f.tracker.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	for _, tok := range []string{"", "garbage", token} {
		_, err := f.tracker.CreateOrder(ctx, tok, ports.CreateOrderInput{Product: "Widget", Quantity: 1})
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("token %q: expected ErrUnauthenticated, got %v", tok, err)
		}
		if _, err := f.tracker.ListOrders(ctx, tok); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("token %q: expected ErrUnauthenticated from list, got %v", tok, err)
		}
	}

	if n, _ := f.ledger.Count(ctx); n != 0 {
		t.Fatalf("expected empty ledger, got %d orders", n)
	}
}

func TestTracker_MetricsRequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.login(t, "intern", "password123")

	if _, err := f.tracker.Metrics(ctx, token); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.tracker.Metrics(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTracker_ProfileAndDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	token := f.login(t, "intern", "password123")
	admin := f.login(t, "admin", "admin123")

	if _, err := f.tracker.CreateOrder(ctx, token, ports.CreateOrderInput{Product: "Widget", Quantity: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.tracker.CreateOrder(ctx, admin, ports.CreateOrderInput{Product: "Gadget", Quantity: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	profile, err := f.tracker.Profile(ctx, token)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Identity != "intern" || profile.Role != domain.RoleMember || profile.IssuedAt.IsZero() {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	view, err := f.tracker.Dashboard(ctx, token)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if view.VisibleOrders != 1 || view.UserCount != 2 || view.Identity != "intern" {
		t.Fatalf("unexpected dashboard: %+v", view)
	}

	view, _ = f.tracker.Dashboard(ctx, admin)
	if view.VisibleOrders != 2 {
		t.Fatalf("admin dashboard should count every order, got %d", view.VisibleOrders)
	}
}
