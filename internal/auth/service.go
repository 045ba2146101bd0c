package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Mailer enqueues transactional email. Implemented by the jobs client.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, to, subject, body string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	codec  *TokenCodec
	mailer Mailer
	logger *slog.Logger
}

// NewService constructs a new Service. mailer may be nil.
func NewService(repo Repository, codec *TokenCodec, mailer Mailer, logger *slog.Logger) *Service {
	return &Service{repo: repo, codec: codec, mailer: mailer, logger: logger}
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Email    string
	Password string
	Name     *string
}

// Register creates a USER-role account and issues its first credential.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user with this email already exists", shared.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, input.Email, string(hash), input.Name, rbac.RoleUser)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		name := user.Email
		if user.Name != nil {
			name = *user.Name
		}
		if err := s.mailer.EnqueueSendEmail(ctx, user.Email, "Welcome to AYLF",
			fmt.Sprintf("Hello %s, your account has been created.", name)); err != nil && s.logger != nil {
			s.logger.Warn("enqueue welcome email", slog.Any("error", err))
		}
	}

	return s.session(user)
}

// Login verifies email/password credentials and issues a credential.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil && s.logger != nil {
		s.logger.Warn("update last login", slog.Any("error", err))
	}
	user.LastLogin = &now

	return s.session(user)
}

// Profile returns the account behind an authenticated principal.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.profile()
	return &profile, nil
}

// Refresh issues a fresh credential for an active account.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return "", fmt.Errorf("%w: user not found or inactive", shared.ErrUnauthenticated)
	}
	return s.codec.Issue(Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
}

func (s *Service) session(user *User) (*Session, error) {
	token, err := s.codec.Issue(Principal{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &Session{User: user.profile(), Token: token}, nil
}
