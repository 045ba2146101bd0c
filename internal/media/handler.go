package media

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

// Handler wires HTTP endpoints for the media module.
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

// MountRoutes registers media routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.getByID)
	r.Post("/", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermMediaCreate},
	}, h.create))
	r.Patch("/{id}", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermMediaUpdate},
	}, h.update))
	r.Delete("/{id}", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermMediaDelete},
	}, h.delete))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	filter := map[string]string{}
	if mediaType := r.URL.Query().Get("type"); mediaType != "" {
		filter["type"] = mediaType
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
	}, "Media retrieved successfully")
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid media id")
		return
	}
	asset, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, asset, "Media retrieved successfully")
}

type createMediaRequest struct {
	Filename     string    `json:"filename" validate:"required,max=255"`
	OriginalName string    `json:"originalName" validate:"required,max=255"`
	MimeType     string    `json:"mimeType" validate:"required,max=100"`
	Size         int64     `json:"size" validate:"gte=0"`
	Path         string    `json:"path" validate:"required"`
	URL          string    `json:"url" validate:"required,url"`
	Alt          *string   `json:"alt"`
	Caption      *string   `json:"caption"`
	Type         MediaType `json:"type"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	var req createMediaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	asset, err := h.service.Create(r.Context(), principal, CreateMediaInput{
		Filename:     req.Filename,
		OriginalName: req.OriginalName,
		MimeType:     req.MimeType,
		Size:         req.Size,
		Path:         req.Path,
		URL:          req.URL,
		Alt:          req.Alt,
		Caption:      req.Caption,
		Type:         req.Type,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, asset, "Media created successfully")
}

type updateMediaRequest struct {
	Alt     *string `json:"alt"`
	Caption *string `json:"caption"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid media id")
		return
	}

	var req updateMediaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := h.service.Update(r.Context(), principal, id, UpdateMediaInput{
		Alt: req.Alt, Caption: req.Caption,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, asset, "Media updated successfully")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid media id")
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, nil, "Media deleted successfully")
}
