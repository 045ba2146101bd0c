package pages

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

// Repository provides PostgreSQL backed persistence for pages.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const pageSelect = `
SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.meta_title, p.meta_description,
       p.is_published, p.published_at, p.sort_order, p.created_at, p.updated_at,
       p.parent_id, parent.title, parent.slug
FROM pages p
LEFT JOIN pages parent ON parent.id = p.parent_id`

func scanPage(row pgx.Row) (*Page, error) {
	var (
		page       Page
		parentTitle *string
		parentSlug  *string
	)
	err := row.Scan(
		&page.ID, &page.Title, &page.Slug, &page.Content, &page.Excerpt,
		&page.MetaTitle, &page.MetaDescription,
		&page.IsPublished, &page.PublishedAt, &page.Order,
		&page.CreatedAt, &page.UpdatedAt,
		&page.ParentID, &parentTitle, &parentSlug,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	if page.ParentID != nil && parentTitle != nil {
		page.Parent = &PageRef{ID: *page.ParentID, Title: *parentTitle, Slug: *parentSlug}
	}
	return &page, nil
}

func (r *Repository) attachChildren(ctx context.Context, page *Page) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, slug
		FROM pages
		WHERE parent_id = $1
		ORDER BY sort_order, title`, page.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	page.Children = []PageRef{}
	for rows.Next() {
		var child PageRef
		if err := rows.Scan(&child.ID, &child.Title, &child.Slug); err != nil {
			return err
		}
		page.Children = append(page.Children, child)
	}
	return rows.Err()
}

// FindByID fetches a page with its parent and children.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	page, err := scanPage(r.pool.QueryRow(ctx, pageSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// FindBySlug fetches a page by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*Page, error) {
	page, err := scanPage(r.pool.QueryRow(ctx, pageSelect+` WHERE p.slug = $1`, slug))
	if err != nil {
		return nil, err
	}
	if err := r.attachChildren(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func listFilter(q shared.ListQuery) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if published, ok := q.Filter["published"]; ok {
		args = append(args, published == "true")
		clauses = append(clauses, fmt.Sprintf("p.is_published = $%d", len(args)))
	}
	if parent, ok := q.Filter["parentId"]; ok {
		if parent == "" {
			clauses = append(clauses, "p.parent_id IS NULL")
		} else {
			args = append(args, parent)
			clauses = append(clauses, fmt.Sprintf("p.parent_id = $%d", len(args)))
		}
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// FindAll lists pages in tree order.
func (r *Repository) FindAll(ctx context.Context, q shared.ListQuery) ([]Page, error) {
	where, args := listFilter(q)
	args = append(args, q.Limit(), q.Offset())
	sql := fmt.Sprintf("%s%s ORDER BY p.sort_order, p.title LIMIT $%d OFFSET $%d",
		pageSelect, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	defer rows.Close()

	result := []Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *page)
	}
	return result, rows.Err()
}

// Count returns the number of pages matching the query filter.
func (r *Repository) Count(ctx context.Context, q shared.ListQuery) (int, error) {
	where, args := listFilter(q)
	var total int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM pages p"+where, args...).Scan(&total)
	if err != nil {
		return 0, db.ClassifyError(err)
	}
	return total, nil
}

// Create inserts a page, stamping published_at when born published.
func (r *Repository) Create(ctx context.Context, input CreatePageInput) (*Page, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO pages
			(title, slug, content, excerpt, meta_title, meta_description,
			 is_published, published_at, sort_order, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
		        CASE WHEN $7 THEN NOW() END, $8, $9)
		RETURNING id`,
		input.Title, input.Slug, input.Content, input.Excerpt,
		input.MetaTitle, input.MetaDescription,
		input.IsPublished, input.Order, input.ParentID,
	).Scan(&id)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return r.FindByID(ctx, id)
}

// Update applies the non-nil fields of input.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdatePageInput) (*Page, error) {
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
	if input.Content != nil {
		set("content", *input.Content)
	}
	if input.Excerpt != nil {
		set("excerpt", *input.Excerpt)
	}
	if input.MetaTitle != nil {
		set("meta_title", *input.MetaTitle)
	}
	if input.MetaDescription != nil {
		set("meta_description", *input.MetaDescription)
	}
	if input.IsPublished != nil {
		set("is_published", *input.IsPublished)
	}
	if input.PublishedAt != nil {
		set("published_at", *input.PublishedAt)
	}
	if input.Order != nil {
		set("sort_order", *input.Order)
	}
	if input.ParentID != nil {
		set("parent_id", *input.ParentID)
	}

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE pages SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a page; children are detached by the schema.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return db.ClassifyError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
