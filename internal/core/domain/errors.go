package domain

import (
	"errors"
	"strings"
)

var (
	// ErrAuthFailed is returned for any failed login. Unknown identity and
	// wrong secret are deliberately the same error.
	ErrAuthFailed = errors.New("invalid credentials")
	// ErrUnauthenticated means the caller presented no session or a session
	// that does not resolve.
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	// ErrConflict means another request holding the same idempotency key
	// has not finished yet.
	ErrConflict = errors.New("request already in progress")
)

// FieldViolation describes one rejected input field.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Fields []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
