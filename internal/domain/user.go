package domain

import "time"

// Role enumerates caller roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleDietician Role = "dietician"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDietician, RoleAdmin:
		return true
	}
	return false
}

// Privileged reports whether r may act on other users' consultations.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleDietician
}

// User is an account holder: a client, a dietician or an administrator.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the public projection of a user embedded in other records.
type UserSummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
