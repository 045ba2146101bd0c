package events

import (
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusDraft     EventStatus = "DRAFT"
	StatusPublished EventStatus = "PUBLISHED"
	StatusCancelled EventStatus = "CANCELLED"
	StatusCompleted EventStatus = "COMPLETED"
)

// ValidStatus reports whether s names a known event status.
func ValidStatus(s EventStatus) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// RegistrationStatus is the state of an attendee registration.
type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "PENDING"
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationCancelled RegistrationStatus = "CANCELLED"
	RegistrationAttended  RegistrationStatus = "ATTENDED"
)

// OrganizerRef is the embedded organizer summary on an event.
type OrganizerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  *string   `json:"name"`
	Email string    `json:"email"`
}

// Event is a scheduled gathering, physical or online.
type Event struct {
	ID                 uuid.UUID    `json:"id"`
	Title              string       `json:"title"`
	Slug               string       `json:"slug"`
	Description        string       `json:"description"`
	Content            *string      `json:"content"`
	Image              *string      `json:"image"`
	StartDate          time.Time    `json:"startDate"`
	EndDate            *time.Time   `json:"endDate"`
	Location           *string      `json:"location"`
	Address            *string      `json:"address"`
	IsOnline           bool         `json:"isOnline"`
	EventURL           *string      `json:"eventUrl"`
	Status             EventStatus  `json:"status"`
	OrganizerID        uuid.UUID    `json:"-"`
	Organizer          OrganizerRef `json:"organizer"`
	RegistrationsCount int          `json:"registrationsCount"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// Registration is an attendee sign-up for an event.
type Registration struct {
	ID        uuid.UUID          `json:"id"`
	EventID   uuid.UUID          `json:"eventId"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Phone     *string            `json:"phone"`
	Status    RegistrationStatus `json:"status"`
	Notes     *string            `json:"notes"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// CreateEventInput carries a new event request.
type CreateEventInput struct {
	Title       string
	Slug        string
	Description string
	Content     *string
	Image       *string
	StartDate   time.Time
	EndDate     *time.Time
	Location    *string
	Address     *string
	IsOnline    bool
	EventURL    *string
	Status      EventStatus
	OrganizerID uuid.UUID
}

// UpdateEventInput carries a partial event update; nil fields are untouched.
type UpdateEventInput struct {
	Title       *string
	Slug        *string
	Description *string
	Content     *string
	Image       *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	Address     *string
	IsOnline    *bool
	EventURL    *string
	Status      *EventStatus
}

// RegisterInput carries a public attendee registration.
type RegisterInput struct {
	Name  string
	Email string
	Phone *string
	Notes *string
}
