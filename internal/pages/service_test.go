package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

type memRepo struct {
	pages map[uuid.UUID]*Page
}

func newMemRepo() *memRepo {
	return &memRepo{pages: map[uuid.UUID]*Page{}}
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Page, error) {
	page, ok := m.pages[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *page
	return &copied, nil
}

func (m *memRepo) FindBySlug(_ context.Context, slug string) (*Page, error) {
	for _, page := range m.pages {
		if page.Slug == slug {
			copied := *page
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memRepo) FindAll(_ context.Context, _ shared.ListQuery) ([]Page, error) {
	out := make([]Page, 0, len(m.pages))
	for _, page := range m.pages {
		out = append(out, *page)
	}
	return out, nil
}

func (m *memRepo) Count(_ context.Context, _ shared.ListQuery) (int, error) {
	return len(m.pages), nil
}

func (m *memRepo) Create(_ context.Context, input CreatePageInput) (*Page, error) {
	now := time.Now().UTC()
	page := &Page{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        input.Slug,
		Content:     input.Content,
		IsPublished: input.IsPublished,
		Order:       input.Order,
		ParentID:    input.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.IsPublished {
		page.PublishedAt = &now
	}
	m.pages[page.ID] = page
	copied := *page
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, input UpdatePageInput) (*Page, error) {
	page, ok := m.pages[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if input.Title != nil {
		page.Title = *input.Title
	}
	if input.Slug != nil {
		page.Slug = *input.Slug
	}
	if input.IsPublished != nil {
		page.IsPublished = *input.IsPublished
	}
	if input.PublishedAt != nil {
		page.PublishedAt = input.PublishedAt
	}
	if input.Order != nil {
		page.Order = *input.Order
	}
	if input.ParentID != nil {
		page.ParentID = input.ParentID
	}
	page.UpdatedAt = time.Now().UTC()
	copied := *page
	return &copied, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.pages[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.pages, id)
	return nil
}

func editor() *auth.Principal {
	return &auth.Principal{UserID: uuid.New(), Email: "editor@example.org", Role: rbac.RoleEditor}
}

func TestCreatePageSlugDefaults(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	page, err := svc.Create(context.Background(), editor(), CreatePageInput{
		Title: "About Us", Content: "body",
	})
	require.NoError(t, err)
	assert.Equal(t, "about-us", page.Slug)
	assert.False(t, page.IsPublished)
	assert.Nil(t, page.PublishedAt)
}

func TestCreatePageDuplicateSlug(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	_, err := svc.Create(context.Background(), editor(), CreatePageInput{Title: "About Us", Content: "a"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), editor(), CreatePageInput{Title: "About Us!", Content: "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDuplicate))
}

func TestCreatePageUnknownParent(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	missing := uuid.New()

	_, err := svc.Create(context.Background(), editor(), CreatePageInput{
		Title: "Child", Content: "a", ParentID: &missing,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUpdatePublishStampsOnce(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil)
	principal := editor()

	page, err := svc.Create(context.Background(), principal, CreatePageInput{Title: "Draft Page", Content: "a"})
	require.NoError(t, err)

	published := true
	updated, err := svc.Update(context.Background(), principal, page.ID, UpdatePageInput{IsPublished: &published})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	first := *updated.PublishedAt

	unpublished := false
	_, err = svc.Update(context.Background(), principal, page.ID, UpdatePageInput{IsPublished: &unpublished})
	require.NoError(t, err)

	updated, err = svc.Update(context.Background(), principal, page.ID, UpdatePageInput{IsPublished: &published})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.Equal(t, first, *updated.PublishedAt)
}

func TestUpdatePageCannotBeOwnParent(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil)
	principal := editor()

	page, err := svc.Create(context.Background(), principal, CreatePageInput{Title: "Loop", Content: "a"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), principal, page.ID, UpdatePageInput{ParentID: &page.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUpdatePageSlugCollision(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	principal := editor()

	first, err := svc.Create(context.Background(), principal, CreatePageInput{Title: "First", Content: "a"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), principal, CreatePageInput{Title: "Second", Content: "b"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), principal, second.ID, UpdatePageInput{Slug: &first.Slug})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDuplicate))
}
