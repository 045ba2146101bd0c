package events

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
	events        map[uuid.UUID]*Event
	registrations map[uuid.UUID][]Registration
}

func newMemRepo() *memRepo {
	return &memRepo{
		events:        map[uuid.UUID]*Event{},
		registrations: map[uuid.UUID][]Registration{},
	}
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *event
	copied.RegistrationsCount = len(m.registrations[id])
	return &copied, nil
}

func (m *memRepo) FindBySlug(_ context.Context, slug string) (*Event, error) {
	for _, event := range m.events {
		if event.Slug == slug {
			copied := *event
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memRepo) FindAll(_ context.Context, _ shared.ListQuery) ([]Event, error) {
	out := make([]Event, 0, len(m.events))
	for _, event := range m.events {
		out = append(out, *event)
	}
	return out, nil
}

func (m *memRepo) Count(_ context.Context, _ shared.ListQuery) (int, error) {
	return len(m.events), nil
}

func (m *memRepo) Create(_ context.Context, input CreateEventInput) (*Event, error) {
	now := time.Now().UTC()
	event := &Event{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        input.Slug,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsOnline:    input.IsOnline,
		Status:      input.Status,
		OrganizerID: input.OrganizerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.events[event.ID] = event
	copied := *event
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, input UpdateEventInput) (*Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Slug != nil {
		event.Slug = *input.Slug
	}
	if input.Status != nil {
		event.Status = *input.Status
	}
	event.UpdatedAt = time.Now().UTC()
	copied := *event
	return &copied, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.events[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.events, id)
	delete(m.registrations, id)
	return nil
}

func (m *memRepo) CreateRegistration(_ context.Context, eventID uuid.UUID, input RegisterInput) (*Registration, error) {
	now := time.Now().UTC()
	reg := Registration{
		ID:        uuid.New(),
		EventID:   eventID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Status:    RegistrationPending,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.registrations[eventID] = append(m.registrations[eventID], reg)
	return &reg, nil
}

func (m *memRepo) ListRegistrations(_ context.Context, eventID uuid.UUID) ([]Registration, error) {
	return append([]Registration{}, m.registrations[eventID]...), nil
}

func organizer() *auth.Principal {
	return &auth.Principal{UserID: uuid.New(), Email: "organizer@example.org", Role: rbac.RoleEditor}
}

func TestCreateEventDefaults(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	event, err := svc.Create(context.Background(), organizer(), CreateEventInput{
		Title:       "Regional Leadership Forum",
		Description: "A gathering",
		StartDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "regional-leadership-forum", event.Slug)
	assert.Equal(t, StatusDraft, event.Status)
}

func TestCreateEventDuplicateSlug(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	start := time.Now().Add(24 * time.Hour)

	_, err := svc.Create(context.Background(), organizer(), CreateEventInput{
		Title: "Forum", Description: "a", StartDate: start,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), organizer(), CreateEventInput{
		Title: "Forum!", Description: "b", StartDate: start,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDuplicate))
}

func TestCreateEventEndBeforeStart(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	start := time.Now().Add(24 * time.Hour)
	end := start.Add(-time.Hour)

	_, err := svc.Create(context.Background(), organizer(), CreateEventInput{
		Title: "Forum", Description: "a", StartDate: start, EndDate: &end,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUpdateEventSlugCollision(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	start := time.Now().Add(24 * time.Hour)

	first, err := svc.Create(context.Background(), organizer(), CreateEventInput{
		Title: "First", Description: "a", StartDate: start,
	})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), organizer(), CreateEventInput{
		Title: "Second", Description: "b", StartDate: start,
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), organizer(), second.ID, UpdateEventInput{Slug: &first.Slug})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDuplicate))
}

func TestRegisterForEvent(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil)

	event, err := svc.Create(context.Background(), organizer(), CreateEventInput{
		Title: "Open Day", Description: "a", StartDate: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	reg, err := svc.Register(context.Background(), event.ID, RegisterInput{
		Name: "Jane Doe", Email: "jane@example.org",
	})
	require.NoError(t, err)
	assert.Equal(t, RegistrationPending, reg.Status)
	assert.Equal(t, event.ID, reg.EventID)

	regs, err := svc.Registrations(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "jane@example.org", regs[0].Email)

	fetched, err := svc.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.RegistrationsCount)
}

func TestRegisterForCancelledEventRejected(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, nil, nil)

	event, err := svc.Create(context.Background(), organizer(), CreateEventInput{
		Title: "Cancelled Day", Description: "a", StartDate: time.Now().Add(24 * time.Hour),
		Status: StatusCancelled,
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), event.ID, RegisterInput{
		Name: "Jane Doe", Email: "jane@example.org",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestRegisterForMissingEvent(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	_, err := svc.Register(context.Background(), uuid.New(), RegisterInput{
		Name: "Jane Doe", Email: "jane@example.org",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}
