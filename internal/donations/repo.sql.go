package donations

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

// Repository provides PostgreSQL backed persistence for donations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const donationSelect = `
SELECT d.id, d.amount, d.currency, d.donor_name, d.donor_email, d.donor_phone,
       d.is_anonymous, d.payment_method, d.status, d.transaction_id, d.notes,
       d.created_at, d.updated_at,
       d.user_id, u.name, u.email
FROM donations d
LEFT JOIN users u ON u.id = d.user_id`

func scanDonation(row pgx.Row) (*Donation, error) {
	var (
		donation  Donation
		userName  *string
		userEmail *string
	)
	err := row.Scan(
		&donation.ID, &donation.Amount, &donation.Currency,
		&donation.DonorName, &donation.DonorEmail, &donation.DonorPhone,
		&donation.IsAnonymous, &donation.PaymentMethod, &donation.Status,
		&donation.TransactionID, &donation.Notes,
		&donation.CreatedAt, &donation.UpdatedAt,
		&donation.UserID, &userName, &userEmail,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	if donation.UserID != nil && userEmail != nil {
		donation.User = &DonorRef{ID: *donation.UserID, Name: userName, Email: *userEmail}
	}
	return &donation, nil
}

// FindByID fetches a donation, with the linked account when present.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Donation, error) {
	return scanDonation(r.pool.QueryRow(ctx, donationSelect+` WHERE d.id = $1`, id))
}

func listFilter(q shared.ListQuery) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if status, ok := q.Filter["status"]; ok {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("d.status = $%d", len(args)))
	}
	if method, ok := q.Filter["paymentMethod"]; ok {
		args = append(args, method)
		clauses = append(clauses, fmt.Sprintf("d.payment_method = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// FindAll lists donations newest first.
func (r *Repository) FindAll(ctx context.Context, q shared.ListQuery) ([]Donation, error) {
	where, args := listFilter(q)
	args = append(args, q.Limit(), q.Offset())
	sql := fmt.Sprintf("%s%s ORDER BY d.created_at DESC LIMIT $%d OFFSET $%d",
		donationSelect, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	defer rows.Close()

	donations := []Donation{}
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, *donation)
	}
	return donations, rows.Err()
}

// Count returns the number of donations matching the query filter.
func (r *Repository) Count(ctx context.Context, q shared.ListQuery) (int, error) {
	where, args := listFilter(q)
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM donations d"+where, args...).Scan(&total)
	if err != nil {
		return 0, db.ClassifyError(err)
	}
	return total, nil
}

// Create inserts a donation.
func (r *Repository) Create(ctx context.Context, input CreateDonationInput) (*Donation, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO donations
			(amount, currency, donor_name, donor_email, donor_phone, is_anonymous,
			 payment_method, status, transaction_id, notes, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		input.Amount, input.Currency, input.DonorName, input.DonorEmail, input.DonorPhone,
		input.IsAnonymous, input.PaymentMethod, input.Status, input.TransactionID,
		input.Notes, input.UserID,
	).Scan(&id)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return r.FindByID(ctx, id)
}

// Update applies the non-nil fields of input.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateDonationInput) (*Donation, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Status != nil {
		set("status", *input.Status)
	}
	if input.TransactionID != nil {
		set("transaction_id", *input.TransactionID)
	}
	if input.Notes != nil {
		set("notes", *input.Notes)
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE donations SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a donation record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM donations WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Totals sums completed donations. COALESCE keeps an empty table at zero.
func (r *Repository) Totals(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM donations
		WHERE status = $1`, StatusCompleted,
	).Scan(&stats.TotalAmount, &stats.CompletedCount)
	if err != nil {
		return Stats{}, db.ClassifyError(err)
	}
	return stats, nil
}
