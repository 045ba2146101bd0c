package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/rbac"
)

// Principal is the authenticated actor bound to a single request.
// It is derived from a verified credential and never persisted.
type Principal struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   rbac.Role `json:"role"`
}

// User represents a user account as the auth module sees it.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         *string
	PasswordHash string
	Role         rbac.Role
	Avatar       *string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the response shape for the current user.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      *string    `json:"name"`
	Role      rbac.Role  `json:"role"`
	Avatar    *string    `json:"avatar"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Session pairs a profile with a freshly issued credential.
type Session struct {
	User  Profile `json:"user"`
	Token string  `json:"token"`
}

func (u *User) profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Avatar:    u.Avatar,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
