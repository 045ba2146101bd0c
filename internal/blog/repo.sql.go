package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nyasinga/aylfwebsite/internal/platform/db"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Repository provides PostgreSQL backed persistence for the blog module.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postSelect = `
SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.featured_image,
       p.status, p.published_at, p.scheduled_at, p.views,
       p.created_at, p.updated_at,
       p.author_id, u.name, u.email,
       p.category_id, c.name, c.slug, c.description, c.created_at
FROM blog_posts p
JOIN users u ON u.id = p.author_id
LEFT JOIN blog_categories c ON c.id = p.category_id`

func scanPost(row pgx.Row) (*Post, error) {
	var (
		post         Post
		categoryName *string
		categorySlug *string
		categoryDesc *string
		categoryAt   *time.Time
	)
	err := row.Scan(
		&post.ID, &post.Title, &post.Slug, &post.Excerpt, &post.Content, &post.FeaturedImage,
		&post.Status, &post.PublishedAt, &post.ScheduledAt, &post.Views,
		&post.CreatedAt, &post.UpdatedAt,
		&post.AuthorID, &post.Author.Name, &post.Author.Email,
		&post.CategoryID, &categoryName, &categorySlug, &categoryDesc, &categoryAt,
	)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	post.Author.ID = post.AuthorID
	if post.CategoryID != nil && categoryName != nil {
		post.Category = &Category{
			ID:          *post.CategoryID,
			Name:        *categoryName,
			Slug:        *categorySlug,
			Description: categoryDesc,
			CreatedAt:   *categoryAt,
		}
	}
	return &post, nil
}

func (r *Repository) attachTags(ctx context.Context, post *Post) error {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.name, t.slug
		FROM blog_tags t
		JOIN blog_post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name`, post.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	post.Tags = []Tag{}
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return err
		}
		post.Tags = append(post.Tags, tag)
	}
	return rows.Err()
}

// FindByID fetches a post with author, category and tags.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	post, err := scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// FindBySlug fetches a post by its slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*Post, error) {
	post, err := scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.slug = $1`, slug))
	if err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func listFilter(q shared.ListQuery) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if status, ok := q.Filter["status"]; ok {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if categoryID, ok := q.Filter["categoryId"]; ok {
		args = append(args, categoryID)
		clauses = append(clauses, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// FindAll lists posts, newest first, honoring status/categoryId filters.
func (r *Repository) FindAll(ctx context.Context, q shared.ListQuery) ([]Post, error) {
	where, args := listFilter(q)
	args = append(args, q.Limit(), q.Offset())
	query := fmt.Sprintf("%s%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d",
		postSelect, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		if err := r.attachTags(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// Count returns the number of posts matching the query filters.
func (r *Repository) Count(ctx context.Context, q shared.ListQuery) (int, error) {
	where, args := listFilter(q)
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts p`+where, args...).Scan(&count)
	return count, err
}

// Create inserts a post and its tag links.
func (r *Repository) Create(ctx context.Context, input CreatePostInput) (*Post, error) {
	id := uuid.New()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var publishedAt *time.Time
		if input.Status == StatusPublished {
			now := time.Now().UTC()
			publishedAt = &now
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO blog_posts (id, title, slug, excerpt, content, featured_image, status, published_at, scheduled_at, author_id, category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			id, input.Title, input.Slug, input.Excerpt, input.Content, input.FeaturedImage,
			input.Status, publishedAt, input.ScheduledAt, input.AuthorID, input.CategoryID)
		if err != nil {
			return db.ClassifyError(err)
		}
		return linkTags(ctx, tx, id, input.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func linkTags(ctx context.Context, tx pgx.Tx, postID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO blog_post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, tagID); err != nil {
			return db.ClassifyError(err)
		}
	}
	return nil
}

// Update applies a partial update and replaces tag links when provided.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdatePostInput) (*Post, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		sets := []string{"updated_at = NOW()"}
		args := []any{id}
		add := func(column string, value any) {
			args = append(args, value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
		if input.Title != nil {
			add("title", *input.Title)
		}
		if input.Slug != nil {
			add("slug", *input.Slug)
		}
		if input.Excerpt != nil {
			add("excerpt", *input.Excerpt)
		}
		if input.Content != nil {
			add("content", *input.Content)
		}
		if input.FeaturedImage != nil {
			add("featured_image", *input.FeaturedImage)
		}
		if input.Status != nil {
			add("status", *input.Status)
		}
		if input.PublishedAt != nil {
			add("published_at", *input.PublishedAt)
		}
		if input.ScheduledAt != nil {
			add("scheduled_at", *input.ScheduledAt)
		}
		if input.CategoryID != nil {
			add("category_id", *input.CategoryID)
		}

		tag, err := tx.Exec(ctx,
			fmt.Sprintf("UPDATE blog_posts SET %s WHERE id = $1", strings.Join(sets, ", ")), args...)
		if err != nil {
			return db.ClassifyError(err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}

		if input.TagIDs != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM blog_post_tags WHERE post_id = $1`, id); err != nil {
				return err
			}
			return linkTags(ctx, tx, id, *input.TagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes a post; tag links cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementViews bumps the post view counter.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE blog_posts SET views = views + 1 WHERE id = $1`, id)
	return err
}

// PublishDue flips scheduled drafts whose time has come and returns the count.
func (r *Repository) PublishDue(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE blog_posts
		SET status = $1, published_at = $2, updated_at = NOW()
		WHERE status = $3 AND scheduled_at IS NOT NULL AND scheduled_at <= $2`,
		StatusPublished, now, StatusDraft)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, description, created_at FROM blog_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, input CreateCategoryInput) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		INSERT INTO blog_categories (id, name, slug, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, slug, description, created_at`,
		uuid.New(), input.Name, input.Slug, input.Description).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &c, nil
}

// FindCategoryBySlug fetches a category by slug.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, description, created_at FROM blog_categories WHERE slug = $1`, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &c, nil
}

// ListTags returns all tags ordered by name.
func (r *Repository) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug FROM blog_tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag inserts a tag.
func (r *Repository) CreateTag(ctx context.Context, input CreateTagInput) (*Tag, error) {
	var t Tag
	err := r.pool.QueryRow(ctx, `
		INSERT INTO blog_tags (id, name, slug) VALUES ($1, $2, $3)
		RETURNING id, name, slug`,
		uuid.New(), input.Name, input.Slug).Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &t, nil
}

// FindTagBySlug fetches a tag by slug.
func (r *Repository) FindTagBySlug(ctx context.Context, slug string) (*Tag, error) {
	var t Tag
	err := r.pool.QueryRow(ctx, `SELECT id, name, slug FROM blog_tags WHERE slug = $1`, slug).
		Scan(&t.ID, &t.Name, &t.Slug)
	if err != nil {
		return nil, db.ClassifyError(err)
	}
	return &t, nil
}

var _ RepositoryPort = (*Repository)(nil)
