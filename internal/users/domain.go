package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/rbac"
)

// User is a managed account. The password hash never leaves the package.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         *string    `json:"name"`
	Avatar       *string    `json:"avatar"`
	Role         rbac.Role  `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreateUserInput carries an admin-created account.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Name         *string
	Avatar       *string
	Role         rbac.Role
	IsActive     bool
}

// UpdateUserInput carries a partial account update; nil fields are untouched.
type UpdateUserInput struct {
	Email        *string
	PasswordHash *string
	Name         *string
	Avatar       *string
	Role         *rbac.Role
	IsActive     *bool
}
