package media

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

// Repository provides PostgreSQL backed persistence for media metadata.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const mediaSelect = `
SELECT m.id, m.filename, m.original_name, m.mime_type, m.size, m.path, m.url,
       m.alt, m.caption, m.type, m.created_at, m.updated_at,
       m.uploaded_by, u.name, u.email
FROM media m
JOIN users u ON u.id = m.uploaded_by`

func scanMedia(row pgx.Row) (*Media, error) {
	var asset Media
	err := row.Scan(
		&asset.ID, &asset.Filename, &asset.OriginalName, &asset.MimeType,
		&asset.Size, &asset.Path, &asset.URL, &asset.Alt, &asset.Caption,
		&asset.Type, &asset.CreatedAt, &asset.UpdatedAt,
		&asset.UploadedByID, &asset.UploadedBy.Name, &asset.UploadedBy.Email,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	asset.UploadedBy.ID = asset.UploadedByID
	return &asset, nil
}

// FindByID fetches an asset with its uploader.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Media, error) {
	return scanMedia(r.pool.QueryRow(ctx, mediaSelect+` WHERE m.id = $1`, id))
}

func listFilter(q shared.ListQuery) (string, []any) {
	clauses := make([]string, 0, 1)
	args := make([]any, 0, 1)
	if mediaType, ok := q.Filter["type"]; ok {
		args = append(args, mediaType)
		clauses = append(clauses, fmt.Sprintf("m.type = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// FindAll lists assets newest first.
func (r *Repository) FindAll(ctx context.Context, q shared.ListQuery) ([]Media, error) {
	where, args := listFilter(q)
	args = append(args, q.Limit(), q.Offset())
	sql := fmt.Sprintf("%s%s ORDER BY m.created_at DESC LIMIT $%d OFFSET $%d",
		mediaSelect, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	defer rows.Close()

	assets := []Media{}
	for rows.Next() {
		asset, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

// Count returns the number of assets matching the query filter.
func (r *Repository) Count(ctx context.Context, q shared.ListQuery) (int, error) {
	where, args := listFilter(q)
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM media m"+where, args...).Scan(&total)
	if err != nil {
		return 0, db.ClassifyError(err)
	}
	return total, nil
}

// Create inserts asset metadata.
func (r *Repository) Create(ctx context.Context, input CreateMediaInput) (*Media, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO media
			(filename, original_name, mime_type, size, path, url, alt, caption, type, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		input.Filename, input.OriginalName, input.MimeType, input.Size,
		input.Path, input.URL, input.Alt, input.Caption, input.Type, input.UploadedByID,
	).Scan(&id)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return r.FindByID(ctx, id)
}

// Update changes the descriptive fields only.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateMediaInput) (*Media, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if input.Alt != nil {
		set("alt", *input.Alt)
	}
	if input.Caption != nil {
		set("caption", *input.Caption)
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE media SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes asset metadata.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
