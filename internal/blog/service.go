package blog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Service applies blog business rules over the repository.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service. audit may be nil.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// GetByID returns a single post.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug returns a post by slug and bumps its view counter.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, post.ID); err != nil && s.logger != nil {
		s.logger.Warn("increment views", slog.String("post", post.ID.String()), slog.Any("error", err))
	}
	post.Views++
	return post, nil
}

// List returns posts with pagination metadata.
func (s *Service) List(ctx context.Context, q shared.ListQuery) ([]Post, shared.Pagination, error) {
	posts, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return posts, shared.NewPagination(q.Page, q.Limit(), total), nil
}

// Create makes a new post owned by the principal. Publishing directly
// requires the blog.publish permission, which contributors do not hold.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, input CreatePostInput) (*Post, error) {
	if input.Slug == "" {
		input.Slug = shared.Slugify(input.Title)
	}
	if !shared.ValidSlug(input.Slug) {
		return nil, fmt.Errorf("%w: invalid slug", shared.ErrValidation)
	}
	if input.Status == "" {
		input.Status = StatusDraft
	}
	if !ValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, input.Status)
	}
	if input.Status == StatusPublished && !rbac.HasPermission(principal.Role, rbac.PermBlogPublish) {
		return nil, fmt.Errorf("%w: required permission: %s", shared.ErrForbidden, rbac.PermBlogPublish)
	}

	if err := s.ensureSlugFree(ctx, input.Slug); err != nil {
		return nil, err
	}

	input.AuthorID = principal.UserID
	post, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "blog.create", post.ID)
	return post, nil
}

// Update applies a partial update. Only the author or an EDITOR/ADMIN may
// modify a post; a transition into PUBLISHED stamps publishedAt once.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input UpdatePostInput) (*Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canModify(principal, post); err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != post.Slug {
		if !shared.ValidSlug(*input.Slug) {
			return nil, fmt.Errorf("%w: invalid slug", shared.ErrValidation)
		}
		if err := s.ensureSlugFree(ctx, *input.Slug); err != nil {
			return nil, err
		}
	}

	if input.Status != nil {
		if !ValidStatus(*input.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *input.Status)
		}
		if *input.Status != post.Status && *input.Status == StatusPublished {
			if !rbac.HasPermission(principal.Role, rbac.PermBlogPublish) {
				return nil, fmt.Errorf("%w: required permission: %s", shared.ErrForbidden, rbac.PermBlogPublish)
			}
			if post.PublishedAt == nil {
				now := time.Now().UTC()
				input.PublishedAt = &now
			}
		}
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "blog.update", id)
	return updated, nil
}

// Delete removes a post, subject to the same ownership rule as Update.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id uuid.UUID) error {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := canModify(principal, post); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, principal, "blog.delete", id)
	return nil
}

// PublishDue flips scheduled drafts whose publish time has passed.
// Invoked by the background worker on a cron schedule.
func (s *Service) PublishDue(ctx context.Context) (int, error) {
	return s.repo.PublishDue(ctx, time.Now().UTC())
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory adds a category with a unique slug.
func (s *Service) CreateCategory(ctx context.Context, principal *auth.Principal, input CreateCategoryInput) (*Category, error) {
	if input.Slug == "" {
		input.Slug = shared.Slugify(input.Name)
	}
	if !shared.ValidSlug(input.Slug) {
		return nil, fmt.Errorf("%w: invalid slug", shared.ErrValidation)
	}
	existing, err := s.repo.FindCategoryBySlug(ctx, input.Slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category with this slug already exists", shared.ErrDuplicate)
	}
	category, err := s.repo.CreateCategory(ctx, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "blog.category.create", category.ID)
	return category, nil
}

// ListTags returns all tags.
func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	return s.repo.ListTags(ctx)
}

// CreateTag adds a tag with a unique slug.
func (s *Service) CreateTag(ctx context.Context, principal *auth.Principal, input CreateTagInput) (*Tag, error) {
	if input.Slug == "" {
		input.Slug = shared.Slugify(input.Name)
	}
	if !shared.ValidSlug(input.Slug) {
		return nil, fmt.Errorf("%w: invalid slug", shared.ErrValidation)
	}
	existing, err := s.repo.FindTagBySlug(ctx, input.Slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: tag with this slug already exists", shared.ErrDuplicate)
	}
	tag, err := s.repo.CreateTag(ctx, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "blog.tag.create", tag.ID)
	return tag, nil
}

// ensureSlugFree is a lookup-before-write check. Two concurrent creates
// can both pass it; the loser hits the unique index and surfaces as a
// duplicate via the repository's error classification.
func (s *Service) ensureSlugFree(ctx context.Context, slug string) error {
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: blog post with this slug already exists", shared.ErrDuplicate)
	}
	return nil
}

// canModify allows the author and elevated roles through.
func canModify(principal *auth.Principal, post *Post) error {
	if principal.UserID == post.AuthorID {
		return nil
	}
	if principal.Role == rbac.RoleAdmin || principal.Role == rbac.RoleEditor {
		return nil
	}
	return fmt.Errorf("%w: only the author or an editor may modify this post", shared.ErrForbidden)
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action string, entityID uuid.UUID) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  principal.UserID,
		Action:   action,
		Entity:   "blog_post",
		EntityID: entityID.String(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
