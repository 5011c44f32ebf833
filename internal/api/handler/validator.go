package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Rule failures come back
// as a *domain.ValidationError so they render like ledger rejections.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make([]domain.FieldViolation, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fieldError(fe))
	}
	return &domain.ValidationError{Fields: fields}
}

// fieldError converts a single FieldError into a field violation.
func fieldError(fe validator.FieldError) domain.FieldViolation {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.FieldViolation{Field: field, Reason: "is required"}
	case "gte", "min":
		return domain.FieldViolation{Field: field, Reason: "must be at least " + fe.Param()}
	default:
		return domain.FieldViolation{Field: field, Reason: "failed " + fe.Tag()}
	}
}
