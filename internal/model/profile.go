package model

import "time"

// Role determines which screens and operations an account may use.
// A role is fixed at signup; there is no role-change operation.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// LandingPath is the role's own landing route. Callers requesting a screen
// outside their role are redirected here.
func (r Role) LandingPath() string {
	if r == RoleAdmin {
		return "/admin"
	}
	return "/employee"
}

// Profile is the account record behind every authenticated identity.
// PasswordHash never leaves the service layer.
type Profile struct {
	UserID       string    `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Department   string    `json:"department,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
