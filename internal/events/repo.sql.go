package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nyasinga/aylfwebsite/internal/platform/db"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Repository provides PostgreSQL backed persistence for the events module.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventSelect = `
SELECT e.id, e.title, e.slug, e.description, e.content, e.image,
       e.start_date, e.end_date, e.location, e.address, e.is_online, e.event_url,
       e.status, e.created_at, e.updated_at,
       e.organizer_id, u.name, u.email,
       (SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = e.id)
FROM events e
JOIN users u ON u.id = e.organizer_id`

func scanEvent(row pgx.Row) (*Event, error) {
	var event Event
	err := row.Scan(
		&event.ID, &event.Title, &event.Slug, &event.Description, &event.Content, &event.Image,
		&event.StartDate, &event.EndDate, &event.Location, &event.Address, &event.IsOnline, &event.EventURL,
		&event.Status, &event.CreatedAt, &event.UpdatedAt,
		&event.OrganizerID, &event.Organizer.Name, &event.Organizer.Email,
		&event.RegistrationsCount,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	event.Organizer.ID = event.OrganizerID
	return &event, nil
}

// FindByID fetches an event with its organizer and registration count.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id))
}

// FindBySlug fetches an event by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.slug = $1`, slug))
}

func listFilter(q shared.ListQuery) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if status, ok := q.Filter["status"]; ok {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("e.status = $%d", len(args)))
	}
	if upcoming, ok := q.Filter["upcoming"]; ok && upcoming == "true" {
		clauses = append(clauses, "e.start_date >= NOW()")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// FindAll lists events newest start date first.
func (r *Repository) FindAll(ctx context.Context, q shared.ListQuery) ([]Event, error) {
	where, args := listFilter(q)
	args = append(args, q.Limit(), q.Offset())
	sql := fmt.Sprintf("%s%s ORDER BY e.start_date DESC LIMIT $%d OFFSET $%d",
		eventSelect, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// Count returns the number of events matching the query filter.
func (r *Repository) Count(ctx context.Context, q shared.ListQuery) (int, error) {
	where, args := listFilter(q)
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM events e"+where, args...).Scan(&total)
	if err != nil {
		return 0, db.ClassifyError(err)
	}
	return total, nil
}

// Create inserts an event.
func (r *Repository) Create(ctx context.Context, input CreateEventInput) (*Event, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO events
			(title, slug, description, content, image, start_date, end_date,
			 location, address, is_online, event_url, status, organizer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		input.Title, input.Slug, input.Description, input.Content, input.Image,
		input.StartDate, input.EndDate, input.Location, input.Address,
		input.IsOnline, input.EventURL, input.Status, input.OrganizerID,
	).Scan(&id)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return r.FindByID(ctx, id)
}

// Update applies the non-nil fields of input.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*Event, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.Slug != nil {
		set("slug", *input.Slug)
	}
	if input.Description != nil {
		set("description", *input.Description)
	}
	if input.Content != nil {
		set("content", *input.Content)
	}
	if input.Image != nil {
		set("image", *input.Image)
	}
	if input.StartDate != nil {
		set("start_date", *input.StartDate)
	}
	if input.EndDate != nil {
		set("end_date", *input.EndDate)
	}
	if input.Location != nil {
		set("location", *input.Location)
	}
	if input.Address != nil {
		set("address", *input.Address)
	}
	if input.IsOnline != nil {
		set("is_online", *input.IsOnline)
	}
	if input.EventURL != nil {
		set("event_url", *input.EventURL)
	}
	if input.Status != nil {
		set("status", *input.Status)
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes an event; registrations cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const registrationSelect = `
SELECT id, event_id, name, email, phone, status, notes, created_at, updated_at
FROM event_registrations`

func scanRegistration(row pgx.Row) (*Registration, error) {
	var reg Registration
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.Name, &reg.Email, &reg.Phone,
		&reg.Status, &reg.Notes, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &reg, nil
}

// CreateRegistration records an attendee registration.
func (r *Repository) CreateRegistration(ctx context.Context, eventID uuid.UUID, input RegisterInput) (*Registration, error) {
	return scanRegistration(r.pool.QueryRow(ctx, `
		INSERT INTO event_registrations (event_id, name, email, phone, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, event_id, name, email, phone, status, notes, created_at, updated_at`,
		eventID, input.Name, input.Email, input.Phone, RegistrationPending, input.Notes,
	))
}

// ListRegistrations returns registrations for an event, oldest first.
func (r *Repository) ListRegistrations(ctx context.Context, eventID uuid.UUID) ([]Registration, error) {
	rows, err := r.pool.Query(ctx, registrationSelect+` WHERE event_id = $1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	defer rows.Close()

	regs := []Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}
