package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/platform/httpx"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Handler wires HTTP endpoints for account management. Every route is
// restricted to the ADMIN role.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        auth.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	v := validator.New()
	_ = v.RegisterValidation("password", validPassword)
	return &Handler{logger: logger, service: service, mw: mw, validator: v}
}

func validPassword(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	var upper, lower, digit bool
	for _, r := range value {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	return upper && lower && digit
}

// MountRoutes registers user management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	adminOnly := auth.Policy{Roles: []rbac.Role{rbac.RoleAdmin}}

	r.Get("/", h.mw.Wrap(adminOnly, h.list))
	r.Post("/", h.mw.Wrap(adminOnly, h.create))
	r.Get("/{id}", h.mw.Wrap(adminOnly, h.getByID))
	r.Patch("/{id}", h.mw.Wrap(adminOnly, h.update))
	r.Delete("/{id}", h.mw.Wrap(adminOnly, h.delete))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	filter := map[string]string{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["role"] = role
	}
	if active := r.URL.Query().Get("active"); active != "" {
		filter["active"] = active
	}

	items, pagination, err := h.service.List(r.Context(), shared.ListQuery{
		Page: page, PerPage: perPage, Filter: filter,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"items":      items,
		"pagination": pagination,
	}, "Users retrieved successfully")
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, user, "User retrieved successfully")
}

type createUserRequest struct {
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=8,password"`
	Name     *string   `json:"name"`
	Role     rbac.Role `json:"role" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	user, err := h.service.Create(r.Context(), principal, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, user, "User created successfully")
}

type updateUserRequest struct {
	Email    *string    `json:"email" validate:"omitempty,email"`
	Password *string    `json:"password" validate:"omitempty,min=8,password"`
	Name     *string    `json:"name"`
	Avatar   *string    `json:"avatar"`
	Role     *rbac.Role `json:"role"`
	IsActive *bool      `json:"isActive"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	user, err := h.service.Update(r.Context(), principal, id, UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Avatar:   req.Avatar,
		Role:     req.Role,
		IsActive: req.IsActive,
	}, req.Password)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, user, "User updated successfully")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, nil, "User deleted successfully")
}
