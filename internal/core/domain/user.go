package domain

// Role is the authorization level attached to a user and snapshotted into
// every session issued for that user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User models an authenticated actor in the system. Users are seeded once at
// startup and never change afterwards.
type User struct {
	Identity     string `json:"identity"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}
