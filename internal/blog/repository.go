package blog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// RepositoryPort defines data access for blog posts, categories and tags.
type RepositoryPort interface {
	shared.Repository[Post, CreatePostInput, UpdatePostInput]

	FindBySlug(ctx context.Context, slug string) (*Post, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	PublishDue(ctx context.Context, now time.Time) (int, error)

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*Category, error)

	ListTags(ctx context.Context) ([]Tag, error)
	CreateTag(ctx context.Context, input CreateTagInput) (*Tag, error)
	FindTagBySlug(ctx context.Context, slug string) (*Tag, error)
}
