package events

import (
	"context"

	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// RepositoryPort defines data access for events and registrations.
type RepositoryPort interface {
	shared.Repository[Event, CreateEventInput, UpdateEventInput]

	FindBySlug(ctx context.Context, slug string) (*Event, error)
	CreateRegistration(ctx context.Context, eventID uuid.UUID, input RegisterInput) (*Registration, error)
	ListRegistrations(ctx context.Context, eventID uuid.UUID) ([]Registration, error)
}
