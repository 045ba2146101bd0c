package auth

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
	"golang.org/x/crypto/bcrypt"

	"github.com/nyasinga/aylfwebsite/internal/platform/httpx"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
	_ "github.com/nyasinga/aylfwebsite/internal/testing/guard"
)

type stubRepo struct {
	byEmail map[string]*User
	byID    map[uuid.UUID]*User
}

func newStubRepo() *stubRepo {
	return &stubRepo{byEmail: make(map[string]*User), byID: make(map[uuid.UUID]*User)}
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepo) Create(ctx context.Context, email, passwordHash string, name *string, role rbac.Role) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byEmail[email] = user
	s.byID[user.ID] = user
	return user, nil
}

func (s *stubRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if user, ok := s.byID[id]; ok {
		user.LastLogin = &at
	}
	return nil
}

func newAuthRouter(t *testing.T, repo Repository) chi.Router {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, DefaultTokenTTL)
	require.NoError(t, err)
	mw := Middleware{Codec: codec}
	service := NewService(repo, codec, nil, nil)
	handler := NewHandler(nil, service, mw, nil)

	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func decodeEnvelope(t *testing.T, res *httptest.ResponseRecorder) (httpx.Envelope, map[string]any) {
	t.Helper()
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &env))
	data, _ := env.Data.(map[string]any)
	return env, data
}

func TestRegisterThenMe(t *testing.T) {
	router := newAuthRouter(t, newStubRepo())

	res := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "a@b.com",
		"password": "Abcdef12",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	env, data := decodeEnvelope(t, res)
	require.True(t, env.Success)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	user, _ := data["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "USER", user["role"])

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meRes := httptest.NewRecorder()
	router.ServeHTTP(meRes, req)
	require.Equal(t, http.StatusOK, meRes.Code)

	_, profile := decodeEnvelope(t, meRes)
	assert.Equal(t, "a@b.com", profile["email"])
}

func TestRegisterWithoutName(t *testing.T) {
	repo := newStubRepo()
	router := newAuthRouter(t, repo)

	res := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "anon@b.com",
		"password": "Abcdef12",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	_, data := decodeEnvelope(t, res)
	user, _ := data["user"].(map[string]any)
	assert.Nil(t, user["name"])

	stored, ok := repo.byEmail["anon@b.com"]
	require.True(t, ok)
	assert.Nil(t, stored.Name)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newAuthRouter(t, newStubRepo())
	body := map[string]string{"email": "a@b.com", "password": "Abcdef12"}

	res := postJSON(t, router, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, res.Code)

	res = postJSON(t, router, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestRegisterWeakPassword(t *testing.T) {
	router := newAuthRouter(t, newStubRepo())

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		res := postJSON(t, router, "/api/auth/register", map[string]string{
			"email":    "weak@b.com",
			"password": password,
		})
		assert.Equal(t, http.StatusBadRequest, res.Code, "password %q", password)
	}
}

func TestLogin(t *testing.T) {
	repo := newStubRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("Correct1pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	seeded, err := repo.Create(context.Background(), "user@aylf.org", string(hash), nil, rbac.RoleEditor)
	require.NoError(t, err)

	router := newAuthRouter(t, repo)

	res := postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "user@aylf.org",
		"password": "Correct1pass",
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	_, data := decodeEnvelope(t, res)
	assert.NotEmpty(t, data["token"])
	require.NotNil(t, repo.byID[seeded.ID].LastLogin)

	res = postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "user@aylf.org",
		"password": "Wrong1password",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo := newStubRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("Correct1pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user, err := repo.Create(context.Background(), "gone@aylf.org", string(hash), nil, rbac.RoleUser)
	require.NoError(t, err)
	user.IsActive = false

	router := newAuthRouter(t, repo)
	res := postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "gone@aylf.org",
		"password": "Correct1pass",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRefresh(t *testing.T) {
	repo := newStubRepo()
	router := newAuthRouter(t, repo)

	res := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "r@b.com",
		"password": "Abcdef12",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	_, data := decodeEnvelope(t, res)
	token, _ := data["token"].(string)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	refreshRes := httptest.NewRecorder()
	router.ServeHTTP(refreshRes, req)
	require.Equal(t, http.StatusOK, refreshRes.Code)

	_, refreshed := decodeEnvelope(t, refreshRes)
	assert.NotEmpty(t, refreshed["token"])
}
