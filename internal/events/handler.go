package events

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/platform/httpx"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// Handler wires HTTP endpoints for the events module.
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

// MountRoutes registers event routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermEventsCreate},
	}, h.create))

	r.Get("/slug/{slug}", h.getBySlug)
	r.Get("/{id}", h.getByID)
	r.Patch("/{id}", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermEventsUpdate},
	}, h.update))
	r.Delete("/{id}", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermEventsDelete},
	}, h.delete))

	r.Post("/{id}/register", h.register)
	r.Get("/{id}/registrations", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermEventsRead},
	}, h.registrations))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	filter := map[string]string{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if upcoming := r.URL.Query().Get("upcoming"); upcoming != "" {
		filter["upcoming"] = upcoming
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
	}, "Events retrieved successfully")
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}
	event, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, event, "Event retrieved successfully")
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, event, "Event retrieved successfully")
}

type createEventRequest struct {
	Title       string      `json:"title" validate:"required,min=3,max=200"`
	Slug        string      `json:"slug" validate:"omitempty,max=200"`
	Description string      `json:"description" validate:"required"`
	Content     *string     `json:"content"`
	Image       *string     `json:"image"`
	StartDate   time.Time   `json:"startDate" validate:"required"`
	EndDate     *time.Time  `json:"endDate"`
	Location    *string     `json:"location"`
	Address     *string     `json:"address"`
	IsOnline    bool        `json:"isOnline"`
	EventURL    *string     `json:"eventUrl" validate:"omitempty,url"`
	Status      EventStatus `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	var req createEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	event, err := h.service.Create(r.Context(), principal, CreateEventInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Content:     req.Content,
		Image:       req.Image,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Address:     req.Address,
		IsOnline:    req.IsOnline,
		EventURL:    req.EventURL,
		Status:      req.Status,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, event, "Event created successfully")
}

type updateEventRequest struct {
	Title       *string      `json:"title" validate:"omitempty,min=3,max=200"`
	Slug        *string      `json:"slug" validate:"omitempty,max=200"`
	Description *string      `json:"description"`
	Content     *string      `json:"content"`
	Image       *string      `json:"image"`
	StartDate   *time.Time   `json:"startDate"`
	EndDate     *time.Time   `json:"endDate"`
	Location    *string      `json:"location"`
	Address     *string      `json:"address"`
	IsOnline    *bool        `json:"isOnline"`
	EventURL    *string      `json:"eventUrl" validate:"omitempty,url"`
	Status      *EventStatus `json:"status"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req updateEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	event, err := h.service.Update(r.Context(), principal, id, UpdateEventInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Content:     req.Content,
		Image:       req.Image,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Address:     req.Address,
		IsOnline:    req.IsOnline,
		EventURL:    req.EventURL,
		Status:      req.Status,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, event, "Event updated successfully")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, nil, "Event deleted successfully")
}

type registerRequest struct {
	Name  string  `json:"name" validate:"required,min=2,max=100"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}

	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	registration, err := h.service.Register(r.Context(), id, RegisterInput{
		Name: req.Name, Email: req.Email, Phone: req.Phone, Notes: req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, registration, "Registered for event successfully")
}

func (h *Handler) registrations(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid event id")
		return
	}
	regs, err := h.service.Registrations(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, regs, "Registrations retrieved successfully")
}
