package dto

import (
	"time"

	"github.com/incidentia/helpdesk/internal/domain"
)

// RegisterRequest is the account registration payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordResetRequest asks for a reset code.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm consumes a reset code.
type PasswordResetConfirm struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse carries the issued token and its subject.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the wire form of an account; the password hash never
// leaves the service.
type UserResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         domain.UserRole `json:"role"`
	DepartmentID *string         `json:"department_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// UpdateUserRequest carries admin-editable account fields.
type UpdateUserRequest struct {
	Name         *string          `json:"name"`
	Role         *domain.UserRole `json:"role"`
	DepartmentID *string          `json:"department_id"`
}
