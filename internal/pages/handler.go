package pages

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

// Handler wires HTTP endpoints for the pages module.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	mw        auth.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, mw: mw, validator: validator.New()}
}

// MountRoutes registers page routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/slug/{slug}", h.getBySlug)
	r.Get("/{id}", h.getByID)
	r.Post("/", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermPagesCreate},
	}, h.create))
	r.Patch("/{id}", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermPagesUpdate},
	}, h.update))
	r.Delete("/{id}", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermPagesDelete},
	}, h.delete))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	filter := map[string]string{}
	if published := r.URL.Query().Get("published"); published != "" {
		filter["published"] = published
	}
	if parent, ok := r.URL.Query()["parentId"]; ok && len(parent) > 0 {
		filter["parentId"] = parent[0]
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
	}, "Pages retrieved successfully")
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid page id")
		return
	}
	page, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, page, "Page retrieved successfully")
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, page, "Page retrieved successfully")
}

type createPageRequest struct {
	Title           string     `json:"title" validate:"required,min=2,max=200"`
	Slug            string     `json:"slug" validate:"omitempty,max=200"`
	Content         string     `json:"content" validate:"required"`
	Excerpt         *string    `json:"excerpt"`
	MetaTitle       *string    `json:"metaTitle"`
	MetaDescription *string    `json:"metaDescription"`
	IsPublished     bool       `json:"isPublished"`
	Order           int        `json:"order"`
	ParentID        *uuid.UUID `json:"parentId"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	var req createPageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	page, err := h.service.Create(r.Context(), principal, CreatePageInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsPublished:     req.IsPublished,
		Order:           req.Order,
		ParentID:        req.ParentID,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, page, "Page created successfully")
}

type updatePageRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=2,max=200"`
	Slug            *string    `json:"slug" validate:"omitempty,max=200"`
	Content         *string    `json:"content"`
	Excerpt         *string    `json:"excerpt"`
	MetaTitle       *string    `json:"metaTitle"`
	MetaDescription *string    `json:"metaDescription"`
	IsPublished     *bool      `json:"isPublished"`
	Order           *int       `json:"order"`
	ParentID        *uuid.UUID `json:"parentId"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid page id")
		return
	}

	var req updatePageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	page, err := h.service.Update(r.Context(), principal, id, UpdatePageInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		IsPublished:     req.IsPublished,
		Order:           req.Order,
		ParentID:        req.ParentID,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, page, "Page updated successfully")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid page id")
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, nil, "Page deleted successfully")
}
