package model

import (
	"errors"
	"fmt"
	"time"
)

// Role is the privilege level of a user account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

var ErrUnknownRole = errors.New("unknown role")

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleStandard}
}

// ParseRole accepts only the known role names.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStandard:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// RoleOf maps any role string to a known role. Values other than "admin"
// carry no extra privilege and map to RoleStandard.
func RoleOf(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleStandard
}

// User represents a user in the database.
type User struct {
	ID        int64
	Name      string
	Email     string
	AuthHash  string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"user_role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse strips a User down to its public fields.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UpdateRoleRequest changes a user's role.
type UpdateRoleRequest struct {
	Role string `json:"user_role"`
}
