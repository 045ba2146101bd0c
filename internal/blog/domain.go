package blog

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	StatusDraft     PostStatus = "DRAFT"
	StatusPublished PostStatus = "PUBLISHED"
	StatusArchived  PostStatus = "ARCHIVED"
)

// ValidStatus reports whether s names a known post status.
func ValidStatus(s PostStatus) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// AuthorRef is the embedded author summary on a post.
type AuthorRef struct {
	ID    uuid.UUID `json:"id"`
	Name  *string   `json:"name"`
	Email string    `json:"email"`
}

// Category groups posts.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Tag labels posts; posts and tags are many-to-many.
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Post is a blog post with its author, optional category and tags.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage *string    `json:"featuredImage"`
	Status        PostStatus `json:"status"`
	PublishedAt   *time.Time `json:"publishedAt"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	AuthorID      uuid.UUID  `json:"-"`
	Author        AuthorRef  `json:"author"`
	CategoryID    *uuid.UUID `json:"-"`
	Category      *Category  `json:"category"`
	Tags          []Tag      `json:"tags"`
	Views         int        `json:"views"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// CreatePostInput carries a new post request.
type CreatePostInput struct {
	Title         string
	Slug          string
	Excerpt       *string
	Content       string
	FeaturedImage *string
	Status        PostStatus
	ScheduledAt   *time.Time
	AuthorID      uuid.UUID
	CategoryID    *uuid.UUID
	TagIDs        []uuid.UUID
}

// UpdatePostInput carries a partial post update; nil fields are untouched.
type UpdatePostInput struct {
	Title         *string
	Slug          *string
	Excerpt       *string
	Content       *string
	FeaturedImage *string
	Status        *PostStatus
	PublishedAt   *time.Time
	ScheduledAt   *time.Time
	CategoryID    *uuid.UUID
	TagIDs        *[]uuid.UUID
}

// CreateCategoryInput carries a new category request.
type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description *string
}

// CreateTagInput carries a new tag request.
type CreateTagInput struct {
	Name string
	Slug string
}
