package donations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

const (
	statsCacheKey = "donations:stats"
	statsCacheTTL = 10 * time.Minute

	defaultCurrency = "USD"
)

// Mailer enqueues outbound mail on the background worker.
type Mailer interface {
	EnqueueSendEmail(ctx context.Context, to, subject, body string) error
}

// Service applies donation business rules over the repository, with the
// aggregate stats cached in redis.
type Service struct {
	repo   RepositoryPort
	cache  *redis.Client
	mailer Mailer
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service. cache, mailer and audit may each be nil.
func NewService(repo RepositoryPort, cache *redis.Client, mailer Mailer, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, mailer: mailer, audit: audit, logger: logger}
}

// GetByID returns a single donation.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Donation, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns donations with pagination metadata.
func (s *Service) List(ctx context.Context, q shared.ListQuery) ([]Donation, shared.Pagination, error) {
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

// Create records a donation. The endpoint is public, so principal may be
// nil; authenticated donors get the donation linked to their account.
func (s *Service) Create(ctx context.Context, principal *auth.Principal, input CreateDonationInput) (*Donation, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if input.Currency == "" {
		input.Currency = defaultCurrency
	}
	if !ValidPaymentMethod(input.PaymentMethod) {
		return nil, fmt.Errorf("%w: unknown payment method %q", shared.ErrValidation, input.PaymentMethod)
	}
	if input.Status == "" {
		input.Status = StatusPending
	}
	if !ValidStatus(input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, input.Status)
	}
	if principal != nil {
		input.UserID = &principal.UserID
	}

	donation, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	if donation.Status == StatusCompleted {
		s.sendReceipt(ctx, donation)
	}
	s.record(ctx, principal, "donations.create", donation.ID)
	return donation, nil
}

// Update applies a status or bookkeeping change. A transition into
// COMPLETED triggers the donor receipt email.
func (s *Service) Update(ctx context.Context, principal *auth.Principal, id uuid.UUID, input UpdateDonationInput) (*Donation, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Status != nil && !ValidStatus(*input.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *input.Status)
	}

	donation, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	if input.Status != nil && *input.Status == StatusCompleted && existing.Status != StatusCompleted {
		s.sendReceipt(ctx, donation)
	}
	s.record(ctx, principal, "donations.update", id)
	return donation, nil
}

// Delete removes a donation record.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	s.record(ctx, principal, "donations.delete", id)
	return nil
}

// GetStats returns the completed-donation totals, served from redis when
// fresh and recomputed otherwise.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
		if err == nil {
			var stats Stats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.repo.Totals(ctx)
	if err != nil {
		return Stats{}, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil && s.logger != nil {
				s.logger.Warn("cache donation stats", slog.Any("error", err))
			}
		}
	}
	return stats, nil
}

func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey).Err(); err != nil && s.logger != nil {
		s.logger.Warn("invalidate donation stats", slog.Any("error", err))
	}
}

func (s *Service) sendReceipt(ctx context.Context, donation *Donation) {
	if s.mailer == nil {
		return
	}
	subject := "Thank you for your donation"
	body := fmt.Sprintf("Dear %s,\n\nwe received your donation of %.2f %s. Thank you for your support.",
		donation.DonorName, donation.Amount, donation.Currency)
	if err := s.mailer.EnqueueSendEmail(ctx, donation.DonorEmail, subject, body); err != nil && s.logger != nil {
		s.logger.Warn("enqueue donation receipt", slog.String("donation", donation.ID.String()), slog.Any("error", err))
	}
}

func (s *Service) record(ctx context.Context, principal *auth.Principal, action string, entityID uuid.UUID) {
	if s.audit == nil || principal == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  principal.UserID,
		Action:   action,
		Entity:   "donation",
		EntityID: entityID.String(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
