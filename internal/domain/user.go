package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleStudent Role = "Student"
	RoleAdmin   Role = "Admin"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// ParseRole maps a wire value onto the closed set of roles. Empty means Student.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleStudent, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", NewValidationError(fmt.Sprintf("Invalid role %q. Allowed: Student, Admin", s))
	}
	return r, nil
}

type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	Role             Role
	IsVerified       bool
	TwoFactorEnabled bool
	TwoFactorSecret  *string
	CohortID         *string
	ClassID          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Owns reports whether u may act on a resource owned by ownerID.
// Admins own everything; a nil owner is owned by admins only.
func (u *User) Owns(ownerID *string) bool {
	if u.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == u.ID
}
