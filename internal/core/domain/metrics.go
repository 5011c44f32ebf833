package domain

import "time"

// Snapshot is the read-only health view exposed to admins.
type Snapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
	OrderCount     int       `json:"total_orders"`
	UserCount      int       `json:"active_users"`
	ActiveSessions int       `json:"active_sessions"`
}
