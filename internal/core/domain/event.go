package domain

import "time"

// AuditAction names something an actor did.
type AuditAction string

const (
	AuditLogin        AuditAction = "login"
	AuditLoginFailed  AuditAction = "login_failed"
	AuditLogout       AuditAction = "logout"
	AuditOrderCreated AuditAction = "order_created"
)

// AuditEvent is one entry of the audit trail.
type AuditEvent struct {
	Action     AuditAction
	Actor      string
	OrderID    int64 // order events only
	Detail     string
	OccurredAt time.Time
}
