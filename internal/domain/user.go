package domain

import "time"

// UserRole enumerates access levels.
type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleTechnician UserRole = "TECHNICIAN"
	UserRoleUser       UserRole = "USER"
)

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r UserRole) bool {
	switch r {
	case UserRoleAdmin, UserRoleTechnician, UserRoleUser:
		return true
	}
	return false
}

// User is an account that reports, handles, or administers tickets.
// Emails are unique.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
