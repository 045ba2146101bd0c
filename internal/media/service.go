package media

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"strings"

	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Service applies media business rules over the repository.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service. audit may be nil.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// GetByID returns a single asset.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Media, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns assets with pagination metadata.
func (s *Service) List(ctx context.Context, q shared.ListQuery) ([]Media, shared.Pagination, error) {
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

// Create stores asset metadata owned by the principal. When no type is
// given it is inferred from the mime type.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, input CreateMediaInput) (*Media, error) {
	if input.Size < 0 {
		return nil, fmt.Errorf("%w: negative size", shared.ErrValidation)
	}
	if _, _, err := mime.ParseMediaType(input.MimeType); err != nil {
		return nil, fmt.Errorf("%w: malformed mime type %q", shared.ErrValidation, input.MimeType)
	}
	if input.Type == "" {
		input.Type = TypeFromMime(input.MimeType)
	}
	if !ValidType(input.Type) {
		return nil, fmt.Errorf("%w: unknown media type %q", shared.ErrValidation, input.Type)
	}

	input.UploadedByID = principal.UserID
	asset, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "media.create", asset.ID)
	return asset, nil
}

// Update changes alt text and caption.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input UpdateMediaInput) (*Media, error) {
	asset, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.record(ctx, principal, "media.update", id)
	return asset, nil
}

// Delete removes asset metadata.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, principal, "media.delete", id)
	return nil
}

// TypeFromMime maps a mime type to the coarse classification.
func TypeFromMime(mimeType string) MediaType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return TypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return TypeVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return TypeAudio
	case mimeType == "application/pdf",
		strings.HasPrefix(mimeType, "text/"),
		strings.Contains(mimeType, "document"),
		strings.Contains(mimeType, "spreadsheet"):
		return TypeDocument
	}
	return TypeOther
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action string, entityID uuid.UUID) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  principal.UserID,
		Action:   action,
		Entity:   "media",
		EntityID: entityID.String(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
