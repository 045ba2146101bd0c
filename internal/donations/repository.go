package donations

import (
	"context"

	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// RepositoryPort defines data access for donations.
type RepositoryPort interface {
	shared.Repository[Donation, CreateDonationInput, UpdateDonationInput]

	// Totals aggregates over COMPLETED donations only.
	Totals(ctx context.Context) (Stats, error)
}
