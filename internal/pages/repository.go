package pages

import (
	"context"

	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// RepositoryPort defines data access for pages.
type RepositoryPort interface {
	shared.Repository[Page, CreatePageInput, UpdatePageInput]

	FindBySlug(ctx context.Context, slug string) (*Page, error)
}
