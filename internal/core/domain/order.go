package domain

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

// OrderStatus is fixed at creation; orders have no lifecycle after that.
type OrderStatus string

const StatusCompleted OrderStatus = "completed"

// Order is an immutable ledger entry.
type Order struct {
	ID        int64       `json:"id"`
	Product   string      `json:"product"`
	Quantity  int         `json:"quantity"`
	Price     float64     `json:"price"`
	CreatedBy string      `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
	Status    OrderStatus `json:"status"`
}

// VisibleTo reports whether an order falls inside the scope of the given
// identity and role: admins see everything, members only their own orders.
func (o *Order) VisibleTo(identity string, role Role) bool {
	return role == RoleAdmin || o.CreatedBy == identity
}

// OrderDraft is the caller-supplied part of an order, validated before the
// ledger reserves an id for it.
type OrderDraft struct {
	Product   string  `validate:"required"`
	Quantity  int     `validate:"gte=1"`
	Price     float64 `validate:"gte=0"`
	CreatedBy string  `validate:"required"`
}

var draftValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate returns a *ValidationError naming every offending field, or nil.
func (d OrderDraft) Validate() error {
	var fields []FieldViolation

	err := draftValidator.Struct(d)
	var ve validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &ve):
		for _, fe := range ve {
			fields = append(fields, draftViolation(fe))
		}
	default:
		return fmt.Errorf("validate order: %w", err)
	}

	// gte=0 accepts +Inf.
	if math.IsNaN(d.Price) || math.IsInf(d.Price, 0) {
		if !hasField(fields, "price") {
			fields = append(fields, FieldViolation{Field: "price", Reason: "must be a finite number"})
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func draftViolation(fe validator.FieldError) FieldViolation {
	field := map[string]string{
		"Product":   "product",
		"Quantity":  "quantity",
		"Price":     "price",
		"CreatedBy": "created_by",
	}[fe.Field()]
	switch fe.Tag() {
	case "required":
		return FieldViolation{Field: field, Reason: "is required"}
	case "gte":
		return FieldViolation{Field: field, Reason: "must be at least " + fe.Param()}
	default:
		return FieldViolation{Field: field, Reason: "failed " + fe.Tag()}
	}
}

func hasField(fields []FieldViolation, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}
