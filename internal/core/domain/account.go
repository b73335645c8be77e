package domain

import "time"

// Role is the coarse authorization tag of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account models a registered user. Accounts are immutable after creation;
// the only lifecycle transition is deletion by an admin.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthContext is the identity attached to a request after its bearer token
// has been verified. It lives for the duration of one request.
type AuthContext struct {
	AccountID string
	Username  string
	Role      Role
}
