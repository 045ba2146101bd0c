package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Service applies event business rules over the repository.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service. audit may be nil.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// GetByID returns a single event.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug returns an event by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Event, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// List returns events with pagination metadata.
func (s *Service) List(ctx context.Context, q shared.ListQuery) ([]Event, shared.Pagination, error) {
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

// Create makes a new event organized by the principal.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, input CreateEventInput) (*Event, error) {
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
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", shared.ErrValidation)
	}
	if err := s.ensureSlugFree(ctx, input.Slug); err != nil {
		return nil, err
	}

	input.OrganizerID = principal.UserID
	event, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "events.create", event.ID)
	return event, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input UpdateEventInput) (*Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Slug != nil && *input.Slug != event.Slug {
		if !shared.ValidSlug(*input.Slug) {
			return nil, fmt.Errorf("%w: invalid slug", shared.ErrValidation)
		}
		if err := s.ensureSlugFree(ctx, *input.Slug); err != nil {
			return nil, err
		}
	}
	if input.Status != nil && !ValidStatus(*input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *input.Status)
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "events.update", id)
	return updated, nil
}

// Delete removes an event and, through the schema, its registrations.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, principal, "events.delete", id)
	return nil
}

// Register records an attendee sign-up for a published event.
// Registration is open to the public; no principal is required.
func (s *Service) Register(ctx context.Context, eventID uuid.UUID, input RegisterInput) (*Registration, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == StatusCancelled {
		return nil, fmt.Errorf("%w: event is cancelled", shared.ErrValidation)
	}
	return s.repo.CreateRegistration(ctx, eventID, input)
}

// Registrations lists attendee sign-ups for an event.
func (s *Service) Registrations(ctx context.Context, eventID uuid.UUID) ([]Registration, error) {
	if _, err := s.repo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListRegistrations(ctx, eventID)
}

func (s *Service) ensureSlugFree(ctx context.Context, slug string) error {
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: event with this slug already exists", shared.ErrDuplicate)
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
		Entity:   "event",
		EntityID: entityID.String(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
