package pages

import (
	"time"

	"github.com/google/uuid"
)

// PageRef is a shallow reference to a related page in the tree.
type PageRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

// Page is a static content page, arranged in a tree via ParentID.
type Page struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	Excerpt         *string    `json:"excerpt"`
	MetaTitle       *string    `json:"metaTitle"`
	MetaDescription *string    `json:"metaDescription"`
	IsPublished     bool       `json:"isPublished"`
	PublishedAt     *time.Time `json:"publishedAt"`
	Order           int        `json:"order"`
	ParentID        *uuid.UUID `json:"-"`
	Parent          *PageRef   `json:"parent"`
	Children        []PageRef  `json:"children"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreatePageInput carries a new page request.
type CreatePageInput struct {
	Title           string
	Slug            string
	Content         string
	Excerpt         *string
	MetaTitle       *string
	MetaDescription *string
	IsPublished     bool
	Order           int
	ParentID        *uuid.UUID
}

// UpdatePageInput carries a partial page update; nil fields are untouched.
type UpdatePageInput struct {
	Title           *string
	Slug            *string
	Content         *string
	Excerpt         *string
	MetaTitle       *string
	MetaDescription *string
	IsPublished     *bool
	PublishedAt     *time.Time
	Order           *int
	ParentID        *uuid.UUID
}
