package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Service applies account management rules over the repository.
// All operations are reached through ADMIN-only routes; the service
// still guards the rules that do not depend on the caller's role.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service. audit may be nil.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// GetByID returns a single account.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns accounts with pagination metadata.
func (s *Service) List(ctx context.Context, q shared.ListQuery) ([]User, shared.Pagination, error) {
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

// Create adds an account with the given role and a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, email, password string, name *string, role rbac.Role) (*User, error) {
	if !rbac.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, role)
	}
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", shared.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, CreateUserInput{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "users.create", user.ID)
	return user, nil
}

// Update applies a partial account update; a new password is re-hashed,
// a changed email is re-checked for uniqueness.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input UpdateUserInput, newPassword *string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		existing, err := s.repo.FindByEmail(ctx, *input.Email)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: email already registered", shared.ErrDuplicate)
		}
	}
	if input.Role != nil && !rbac.ValidRole(*input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, *input.Role)
	}
	if newPassword != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*newPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		input.PasswordHash = &hashed
	}

	updated, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "users.update", id)
	return updated, nil
}

// Delete removes an account. Admins cannot delete themselves.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id uuid.UUID) error {
	if principal != nil && principal.UserID == id {
		return fmt.Errorf("%w: cannot delete your own account", shared.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, principal, "users.delete", id)
	return nil
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action string, entityID uuid.UUID) {
	if s.audit == nil || principal == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  principal.UserID,
		Action:   action,
		Entity:   "user",
		EntityID: entityID.String(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
