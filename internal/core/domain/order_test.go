package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestOrderDraft_Validate(t *testing.T) {
	cases := []struct {
		name   string
		draft  OrderDraft
		fields []string
	}{
		{"valid", OrderDraft{Product: "Widget", Quantity: 2, Price: 9.99, CreatedBy: "intern"}, nil},
		{"free", OrderDraft{Product: "Sample", Quantity: 1, Price: 0, CreatedBy: "intern"}, nil},
		{"empty product", OrderDraft{Quantity: 1, CreatedBy: "intern"}, []string{"product"}},
		{"zero quantity", OrderDraft{Product: "Widget", CreatedBy: "intern"}, []string{"quantity"}},
		{"negative price", OrderDraft{Product: "Widget", Quantity: 1, Price: -0.01, CreatedBy: "intern"}, []string{"price"}},
		{"infinite price", OrderDraft{Product: "Widget", Quantity: 1, Price: math.Inf(1), CreatedBy: "intern"}, []string{"price"}},
		{"nan price", OrderDraft{Product: "Widget", Quantity: 1, Price: math.NaN(), CreatedBy: "intern"}, []string{"price"}},
		{"everything", OrderDraft{Quantity: -3, Price: -1}, []string{"product", "quantity", "price", "created_by"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if tc.fields == nil {
				if err != nil {
					t.Fatalf("expected valid draft, got %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected errors.Is(err, ErrValidation)")
			}
			if len(ve.Fields) != len(tc.fields) {
				t.Fatalf("expected %d violations, got %+v", len(tc.fields), ve.Fields)
			}
			for _, name := range tc.fields {
				if !hasField(ve.Fields, name) {
					t.Fatalf("missing violation for %s in %+v", name, ve.Fields)
				}
			}
		})
	}
}

func TestOrder_VisibleTo(t *testing.T) {
	o := &Order{ID: 1, CreatedBy: "intern", CreatedAt: time.Now(), Status: StatusCompleted}

	if !o.VisibleTo("intern", RoleMember) {
		t.Fatalf("creator must see own order")
	}
	if o.VisibleTo("someone", RoleMember) {
		t.Fatalf("other members must not see the order")
	}
	if !o.VisibleTo("admin", RoleAdmin) {
		t.Fatalf("admin sees every order")
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	open := &Session{IssuedAt: now}
	if open.Expired(now.Add(24 * 365 * time.Hour)) {
		t.Fatalf("session without expiry must never expire")
	}

	s := &Session{IssuedAt: now, ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now.Add(59 * time.Second)) {
		t.Fatalf("expired too early")
	}
	if !s.Expired(now.Add(time.Minute)) {
		t.Fatalf("expected expiry at ExpiresAt")
	}
}
