package auth

import (
	"log/slog"
	"net/http"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nyasinga/aylfwebsite/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        Middleware
	limit     func(http.Handler) http.Handler
	validator *validator.Validate
}

// NewHandler constructs a Handler. limit guards the credential endpoints
// against brute force and may be nil.
func NewHandler(logger *slog.Logger, service *Service, mw Middleware, limit func(http.Handler) http.Handler) *Handler {
	v := validator.New()
	_ = v.RegisterValidation("password", validPassword)
	return &Handler{logger: logger, service: service, mw: mw, limit: limit, validator: v}
}

// validPassword requires at least one upper, one lower and one digit.
// Length is checked separately via min=8.
func validPassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.limit != nil {
			r.Use(h.limit)
		}
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
	})
	r.Get("/me", h.mw.RequireAuth(h.handleMe))
	r.Post("/refresh", h.mw.RequireAuth(h.handleRefresh))
}

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,password"`
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	session, err := h.service.Register(r.Context(), RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, session, "Registration successful")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, session, "Login successful")
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request, principal *Principal) {
	profile, err := h.service.Profile(r.Context(), principal.UserID)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, profile, "User data retrieved successfully")
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request, principal *Principal) {
	token, err := h.service.Refresh(r.Context(), principal.UserID)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]string{"token": token}, "Token refreshed successfully")
}
