package domain

import "time"

// Session is the server-side record behind a session token.
type Session struct {
	ID       string    `json:"-"`
	Identity string    `json:"identity"`
	Role     Role      `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
	// ExpiresAt is zero for sessions that only end on logout.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the session has passed its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
