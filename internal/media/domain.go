package media

import (
	"time"

	"github.com/google/uuid"
)

// MediaType is the coarse classification of an asset.
type MediaType string

const (
	TypeImage    MediaType = "IMAGE"
	TypeVideo    MediaType = "VIDEO"
	TypeDocument MediaType = "DOCUMENT"
	TypeAudio    MediaType = "AUDIO"
	TypeOther    MediaType = "OTHER"
)

// ValidType reports whether t names a known media type.
func ValidType(t MediaType) bool {
	switch t {
	case TypeImage, TypeVideo, TypeDocument, TypeAudio, TypeOther:
		return true
	}
	return false
}

// UploaderRef is the embedded uploader summary on an asset.
type UploaderRef struct {
	ID    uuid.UUID `json:"id"`
	Name  *string   `json:"name"`
	Email string    `json:"email"`
}

// Media is an uploaded asset's metadata; the binary lives elsewhere.
type Media struct {
	ID           uuid.UUID   `json:"id"`
	Filename     string      `json:"filename"`
	OriginalName string      `json:"originalName"`
	MimeType     string      `json:"mimeType"`
	Size         int64       `json:"size"`
	Path         string      `json:"path"`
	URL          string      `json:"url"`
	Alt          *string     `json:"alt"`
	Caption      *string     `json:"caption"`
	Type         MediaType   `json:"type"`
	UploadedByID uuid.UUID   `json:"-"`
	UploadedBy   UploaderRef `json:"uploadedBy"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CreateMediaInput carries new asset metadata.
type CreateMediaInput struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Path         string
	URL          string
	Alt          *string
	Caption      *string
	Type         MediaType
	UploadedByID uuid.UUID
}

// UpdateMediaInput carries the editable descriptive fields.
type UpdateMediaInput struct {
	Alt     *string
	Caption *string
}
