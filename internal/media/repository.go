package media

import (
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// RepositoryPort defines data access for media metadata.
type RepositoryPort interface {
	shared.Repository[Media, CreateMediaInput, UpdateMediaInput]
}
