package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Service applies page business rules over the repository.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service. audit may be nil.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// GetByID returns a single page.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug returns a page by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// List returns pages with pagination metadata.
func (s *Service) List(ctx context.Context, q shared.ListQuery) ([]Page, shared.Pagination, error) {
	items, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(q.Page, q.Limit(), total), nil
}

// Create makes a new page, optionally attached under a parent.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, input CreatePageInput) (*Page, error) {
	if input.Slug == "" {
		input.Slug = shared.Slugify(input.Title)
	}
	if !shared.ValidSlug(input.Slug) {
		return nil, fmt.Errorf("%w: invalid slug", shared.ErrValidation)
	}
	if err := s.ensureSlugFree(ctx, input.Slug); err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent page not found", shared.ErrValidation)
			}
			return nil, err
		}
	}

	page, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "pages.create", page.ID)
	return page, nil
}

// Update applies a partial update. Turning isPublished on stamps
// publishedAt the first time only; a page cannot become its own parent.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input UpdatePageInput) (*Page, error) {
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != page.Slug {
		if !shared.ValidSlug(*input.Slug) {
			return nil, fmt.Errorf("%w: invalid slug", shared.ErrValidation)
		}
		if err := s.ensureSlugFree(ctx, *input.Slug); err != nil {
			return nil, err
		}
	}
	if input.ParentID != nil {
		if *input.ParentID == id {
			return nil, fmt.Errorf("%w: page cannot be its own parent", shared.ErrValidation)
		}
		if _, err := s.repo.FindByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent page not found", shared.ErrValidation)
			}
			return nil, err
		}
	}
	if input.IsPublished != nil && *input.IsPublished && !page.IsPublished && page.PublishedAt == nil {
		now := time.Now().UTC()
		input.PublishedAt = &now
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "pages.update", id)
	return updated, nil
}

// Delete removes a page.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, principal, "pages.delete", id)
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug string) error {
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: page with this slug already exists", shared.ErrDuplicate)
	}
	return nil
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action string, entityID uuid.UUID) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  principal.UserID,
		Action:   action,
		Entity:   "page",
		EntityID: entityID.String(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
