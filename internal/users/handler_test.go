package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
	_ "github.com/nyasinga/aylfwebsite/internal/testing/guard"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memRepo struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[uuid.UUID]*User{}, byEmail: map[string]*User{}}
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memRepo) FindAll(_ context.Context, _ shared.ListQuery) ([]User, error) {
	out := make([]User, 0, len(m.byID))
	for _, user := range m.byID {
		out = append(out, *user)
	}
	return out, nil
}

func (m *memRepo) Count(_ context.Context, _ shared.ListQuery) (int, error) {
	return len(m.byID), nil
}

func (m *memRepo) Create(_ context.Context, input CreateUserInput) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Name:         input.Name,
		Role:         input.Role,
		IsActive:     input.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	copied := *user
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, id uuid.UUID, input UpdateUserInput) (*User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if input.Email != nil {
		delete(m.byEmail, user.Email)
		user.Email = *input.Email
		m.byEmail[user.Email] = user
	}
	if input.PasswordHash != nil {
		user.PasswordHash = *input.PasswordHash
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	user.UpdatedAt = time.Now().UTC()
	copied := *user
	return &copied, nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	user, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.byEmail, user.Email)
	delete(m.byID, id)
	return nil
}

func newUsersRouter(t *testing.T) (*chi.Mux, *auth.TokenCodec, *memRepo) {
	t.Helper()
	codec, err := auth.NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)

	repo := newMemRepo()
	mw := auth.Middleware{Codec: codec}
	handler := NewHandler(nil, NewService(repo, nil, nil), mw)

	router := chi.NewRouter()
	router.Route("/api/users", handler.MountRoutes)
	return router, codec, repo
}

func tokenFor(t *testing.T, codec *auth.TokenCodec, role rbac.Role) (string, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	token, err := codec.Issue(auth.Principal{UserID: id, Email: "actor@example.org", Role: role})
	require.NoError(t, err)
	return token, id
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListForbiddenForRegularUser(t *testing.T) {
	router, codec, _ := newUsersRouter(t)
	token, _ := tokenFor(t, codec, rbac.RoleUser)

	rec := doJSON(t, router, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListForbiddenForEditor(t *testing.T) {
	router, codec, _ := newUsersRouter(t)
	token, _ := tokenFor(t, codec, rbac.RoleEditor)

	rec := doJSON(t, router, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListUnauthenticated(t *testing.T) {
	router, _, _ := newUsersRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminCreatesUser(t *testing.T) {
	router, codec, repo := newUsersRouter(t)
	token, _ := tokenFor(t, codec, rbac.RoleAdmin)

	rec := doJSON(t, router, http.MethodPost, "/api/users", token, map[string]any{
		"email":    "new@example.org",
		"password": "Sup3rSecret",
		"role":     "EDITOR",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created, ok := repo.byEmail["new@example.org"]
	require.True(t, ok)
	assert.Equal(t, rbac.RoleEditor, created.Role)
	assert.True(t, created.IsActive)
	// stored as a bcrypt hash, never the raw password
	assert.NotEqual(t, "Sup3rSecret", created.PasswordHash)
	assert.NotContains(t, rec.Body.String(), created.PasswordHash)
}

func TestAdminCreateDuplicateEmail(t *testing.T) {
	router, codec, _ := newUsersRouter(t)
	token, _ := tokenFor(t, codec, rbac.RoleAdmin)

	payload := map[string]any{
		"email":    "dup@example.org",
		"password": "Sup3rSecret",
		"role":     "USER",
	}
	rec := doJSON(t, router, http.MethodPost, "/api/users", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/users", token, payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminCreateUnknownRole(t *testing.T) {
	router, codec, _ := newUsersRouter(t)
	token, _ := tokenFor(t, codec, rbac.RoleAdmin)

	rec := doJSON(t, router, http.MethodPost, "/api/users", token, map[string]any{
		"email":    "x@example.org",
		"password": "Sup3rSecret",
		"role":     "SUPERUSER",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	router, codec, repo := newUsersRouter(t)
	token, adminID := tokenFor(t, codec, rbac.RoleAdmin)

	// target row exists under the admin's own id
	repo.byID[adminID] = &User{ID: adminID, Email: "actor@example.org", Role: rbac.RoleAdmin, IsActive: true}
	repo.byEmail["actor@example.org"] = repo.byID[adminID]

	rec := doJSON(t, router, http.MethodDelete, "/api/users/"+adminID.String(), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, stillThere := repo.byID[adminID]
	assert.True(t, stillThere)
}

func TestAdminDeletesOtherUser(t *testing.T) {
	router, codec, repo := newUsersRouter(t)
	token, _ := tokenFor(t, codec, rbac.RoleAdmin)

	victim := &User{ID: uuid.New(), Email: "victim@example.org", Role: rbac.RoleUser, IsActive: true}
	repo.byID[victim.ID] = victim
	repo.byEmail[victim.Email] = victim

	rec := doJSON(t, router, http.MethodDelete, "/api/users/"+victim.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, gone := repo.byID[victim.ID]
	assert.False(t, gone)
}
