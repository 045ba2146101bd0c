package donations

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

// Handler wires HTTP endpoints for the donations module.
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

// MountRoutes registers donation routes. Creation and the public stats
// endpoint are open; everything else needs donation permissions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/stats", h.stats)
	r.Get("/", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermDonationsRead},
	}, h.list))
	r.Get("/{id}", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermDonationsRead},
	}, h.getByID))
	r.Patch("/{id}", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermDonationsUpdate},
	}, h.update))
	r.Delete("/{id}", h.mw.Wrap(auth.Policy{
		Roles: []rbac.Role{rbac.RoleAdmin},
	}, h.delete))
}

type createDonationRequest struct {
	Amount        float64       `json:"amount" validate:"required,gt=0"`
	Currency      string        `json:"currency" validate:"omitempty,len=3"`
	DonorName     string        `json:"donorName" validate:"required,min=2,max=100"`
	DonorEmail    string        `json:"donorEmail" validate:"required,email"`
	DonorPhone    *string       `json:"donorPhone"`
	IsAnonymous   bool          `json:"isAnonymous"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required"`
	TransactionID *string       `json:"transactionId"`
	Notes         *string       `json:"notes"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createDonationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	// logged-in donors get the donation attached to their account
	principal := h.mw.OptionalPrincipal(r)

	donation, err := h.service.Create(r.Context(), principal, CreateDonationInput{
		Amount:        req.Amount,
		Currency:      req.Currency,
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		DonorPhone:    req.DonorPhone,
		IsAnonymous:   req.IsAnonymous,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, donation, "Donation recorded successfully")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	filter := map[string]string{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if method := r.URL.Query().Get("paymentMethod"); method != "" {
		filter["paymentMethod"] = method
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
	}, "Donations retrieved successfully")
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request, _ *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid donation id")
		return
	}
	donation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, donation, "Donation retrieved successfully")
}

type updateDonationRequest struct {
	Status        *DonationStatus `json:"status"`
	TransactionID *string         `json:"transactionId"`
	Notes         *string         `json:"notes"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	var req updateDonationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	donation, err := h.service.Update(r.Context(), principal, id, UpdateDonationInput{
		Status:        req.Status,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, donation, "Donation updated successfully")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid donation id")
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, nil, "Donation deleted successfully")
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, stats, "Donation stats retrieved successfully")
}
