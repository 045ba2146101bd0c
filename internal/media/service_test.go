package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

type memRepo struct {
	assets map[uuid.UUID]*Media
}

func newMemRepo() *memRepo {
	return &memRepo{assets: map[uuid.UUID]*Media{}}
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*Media, error) {
	asset, ok := m.assets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *asset
	return &copied, nil
}

func (m *memRepo) FindAll(_ context.Context, _ shared.ListQuery) ([]Media, error) {
	out := make([]Media, 0, len(m.assets))
	for _, asset := range m.assets {
		out = append(out, *asset)
	}
	return out, nil
}

func (m *memRepo) Count(_ context.Context, _ shared.ListQuery) (int, error) {
	return len(m.assets), nil
}

func (m *memRepo) Create(_ context.Context, input CreateMediaInput) (*Media, error) {
	now := time.Now().UTC()
	asset := &Media{
		ID:           uuid.New(),
		Filename:     input.Filename,
		OriginalName: input.OriginalName,
		MimeType:     input.MimeType,
		Size:         input.Size,
		Path:         input.Path,
		URL:          input.URL,
		Alt:          input.Alt,
		Caption:      input.Caption,
		Type:         input.Type,
		UploadedByID: input.UploadedByID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.assets[asset.ID] = asset
	copied := *asset
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, input UpdateMediaInput) (*Media, error) {
	asset, ok := m.assets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if input.Alt != nil {
		asset.Alt = input.Alt
	}
	if input.Caption != nil {
		asset.Caption = input.Caption
	}
	asset.UpdatedAt = time.Now().UTC()
	copied := *asset
	return &copied, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.assets[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.assets, id)
	return nil
}

func uploader() *auth.Principal {
	return &auth.Principal{UserID: uuid.New(), Email: "editor@example.org", Role: rbac.RoleEditor}
}

func TestCreateInfersTypeFromMime(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)
	principal := uploader()

	asset, err := svc.Create(context.Background(), principal, CreateMediaInput{
		Filename: "a.jpg", OriginalName: "photo.jpg", MimeType: "image/jpeg",
		Size: 1024, Path: "/uploads/a.jpg", URL: "https://cdn.example.org/a.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, TypeImage, asset.Type)
	assert.Equal(t, principal.UserID, asset.UploadedByID)
}

func TestCreateRejectsMalformedMime(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	_, err := svc.Create(context.Background(), uploader(), CreateMediaInput{
		Filename: "a.bin", OriginalName: "a.bin", MimeType: "not a mime",
		Size: 1, Path: "/uploads/a.bin", URL: "https://cdn.example.org/a.bin",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestCreateRejectsNegativeSize(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	_, err := svc.Create(context.Background(), uploader(), CreateMediaInput{
		Filename: "a.pdf", OriginalName: "a.pdf", MimeType: "application/pdf",
		Size: -1, Path: "/uploads/a.pdf", URL: "https://cdn.example.org/a.pdf",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUpdateDescriptiveFields(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	asset, err := svc.Create(context.Background(), uploader(), CreateMediaInput{
		Filename: "a.png", OriginalName: "a.png", MimeType: "image/png",
		Size: 10, Path: "/uploads/a.png", URL: "https://cdn.example.org/a.png",
	})
	require.NoError(t, err)

	alt := "Team photo"
	updated, err := svc.Update(context.Background(), uploader(), asset.ID, UpdateMediaInput{Alt: &alt})
	require.NoError(t, err)
	require.NotNil(t, updated.Alt)
	assert.Equal(t, "Team photo", *updated.Alt)
}

func TestDeleteMissingAsset(t *testing.T) {
	svc := NewService(newMemRepo(), nil, nil)

	err := svc.Delete(context.Background(), uploader(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestTypeFromMime(t *testing.T) {
	cases := map[string]MediaType{
		"image/webp":      TypeImage,
		"video/mp4":       TypeVideo,
		"audio/mpeg":      TypeAudio,
		"application/pdf": TypeDocument,
		"text/plain":      TypeDocument,
		"application/zip": TypeOther,
	}
	for mimeType, want := range cases {
		assert.Equal(t, want, TypeFromMime(mimeType), mimeType)
	}
}
