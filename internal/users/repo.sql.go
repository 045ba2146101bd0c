package users

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

// Repository provides PostgreSQL backed persistence for accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, password_hash, name, avatar, role, is_active, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Avatar,
		&user.Role, &user.IsActive, &user.LastLogin, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &user, nil
}

// FindByID fetches an account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// FindByEmail fetches an account by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func listFilter(q shared.ListQuery) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if role, ok := q.Filter["role"]; ok {
		args = append(args, role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if active, ok := q.Filter["active"]; ok {
		args = append(args, active == "true")
		clauses = append(clauses, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// FindAll lists accounts newest first.
func (r *Repository) FindAll(ctx context.Context, q shared.ListQuery) ([]User, error) {
	where, args := listFilter(q)
	args = append(args, q.Limit(), q.Offset())
	sql := fmt.Sprintf("SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	defer rows.Close()

	accounts := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *user)
	}
	return accounts, rows.Err()
}

// Count returns the number of accounts matching the query filter.
func (r *Repository) Count(ctx context.Context, q shared.ListQuery) (int, error) {
	where, args := listFilter(q)
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total)
	if err != nil {
		return 0, db.ClassifyError(err)
	}
	return total, nil
}

// Create inserts an account.
func (r *Repository) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, avatar, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		input.Email, input.PasswordHash, input.Name, input.Avatar, input.Role, input.IsActive,
	))
}

// Update applies the non-nil fields of input.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*User, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Email != nil {
		set("email", *input.Email)
	}
	if input.PasswordHash != nil {
		set("password_hash", *input.PasswordHash)
	}
	if input.Name != nil {
		set("name", *input.Name)
	}
	if input.Avatar != nil {
		set("avatar", *input.Avatar)
	}
	if input.Role != nil {
		set("role", *input.Role)
	}
	if input.IsActive != nil {
		set("is_active", *input.IsActive)
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), userColumns)
	return scanUser(r.pool.QueryRow(ctx, sql, args...))
}

// Delete removes an account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
