package users

import (
	"context"

	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// RepositoryPort defines data access for account management.
type RepositoryPort interface {
	shared.Repository[User, CreateUserInput, UpdateUserInput]

	FindByEmail(ctx context.Context, email string) (*User, error)
}
