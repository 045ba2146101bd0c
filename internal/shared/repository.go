package shared

import (
	"context"

	"github.com/google/uuid"
)

// ListQuery carries paging, ordering and equality filters for listings.
type ListQuery struct {
	Page    int
	PerPage int
	OrderBy string
	Desc    bool
	Filter  map[string]string
}

// Offset returns the row offset implied by the query.
func (q ListQuery) Offset() int {
	page := q.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Limit returns the page size, defaulting when unset.
func (q ListQuery) Limit() int {
	if q.PerPage <= 0 {
		return defaultPerPage
	}
	return q.PerPage
}

// Repository is the generic persistence capability every domain
// repository satisfies. Domain ports extend it with entity-specific
// lookups (slug, email) instead of inheriting a base implementation.
type Repository[E any, C any, U any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*E, error)
	FindAll(ctx context.Context, q ListQuery) ([]E, error)
	Create(ctx context.Context, input C) (*E, error)
	Update(ctx context.Context, id uuid.UUID, input U) (*E, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, q ListQuery) (int, error)
}
