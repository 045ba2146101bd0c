package blog

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

// Handler wires HTTP endpoints for the blog module.
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

// MountRoutes registers blog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listPosts)
	r.Post("/", h.mw.Wrap(auth.Policy{
		Roles: []rbac.Role{rbac.RoleAdmin, rbac.RoleEditor, rbac.RoleContributor},
	}, h.createPost))

	r.Get("/categories", h.listCategories)
	r.Post("/categories", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermBlogCreate},
	}, h.createCategory))

	r.Get("/tags", h.listTags)
	r.Post("/tags", h.mw.Wrap(auth.Policy{
		Permissions: []rbac.Permission{rbac.PermBlogCreate},
	}, h.createTag))

	r.Get("/slug/{slug}", h.getPostBySlug)
	r.Get("/{id}", h.getPostByID)
	r.Patch("/{id}", h.mw.RequireAuth(h.updatePost))
	r.Delete("/{id}", h.mw.RequireAuth(h.deletePost))
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromQuery(r.URL.Query())
	filter := map[string]string{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if categoryID := r.URL.Query().Get("categoryId"); categoryID != "" {
		filter["categoryId"] = categoryID
	}

	posts, pagination, err := h.service.List(r.Context(), shared.ListQuery{
		Page: page, PerPage: perPage, Filter: filter,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"items":      posts,
		"pagination": pagination,
	}, "Blog posts retrieved successfully")
}

func (h *Handler) getPostByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid blog post id")
		return
	}
	post, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, post, "Blog post retrieved successfully")
}

func (h *Handler) getPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, post, "Blog post retrieved successfully")
}

type createPostRequest struct {
	Title         string     `json:"title" validate:"required,min=3,max=200"`
	Slug          string     `json:"slug" validate:"omitempty,max=200"`
	Excerpt       *string    `json:"excerpt"`
	Content       string     `json:"content" validate:"required"`
	FeaturedImage *string    `json:"featuredImage"`
	Status        PostStatus `json:"status"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	CategoryID    *uuid.UUID `json:"categoryId"`
	TagIDs        []uuid.UUID `json:"tagIds"`
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	var req createPostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	post, err := h.service.Create(r.Context(), principal, CreatePostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Status:        req.Status,
		ScheduledAt:   req.ScheduledAt,
		CategoryID:    req.CategoryID,
		TagIDs:        req.TagIDs,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, post, "Blog post created successfully")
}

type updatePostRequest struct {
	Title         *string      `json:"title" validate:"omitempty,min=3,max=200"`
	Slug          *string      `json:"slug" validate:"omitempty,max=200"`
	Excerpt       *string      `json:"excerpt"`
	Content       *string      `json:"content"`
	FeaturedImage *string      `json:"featuredImage"`
	Status        *PostStatus  `json:"status"`
	ScheduledAt   *time.Time   `json:"scheduledAt"`
	CategoryID    *uuid.UUID   `json:"categoryId"`
	TagIDs        *[]uuid.UUID `json:"tagIds"`
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid blog post id")
		return
	}

	var req updatePostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}

	post, err := h.service.Update(r.Context(), principal, id, UpdatePostInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Status:        req.Status,
		ScheduledAt:   req.ScheduledAt,
		CategoryID:    req.CategoryID,
		TagIDs:        req.TagIDs,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, post, "Blog post updated successfully")
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid blog post id")
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, nil, "Blog post deleted successfully")
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, categories, "Categories retrieved successfully")
}

type createCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Slug        string  `json:"slug" validate:"omitempty,max=100"`
	Description *string `json:"description"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	var req createCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}
	category, err := h.service.CreateCategory(r.Context(), principal, CreateCategoryInput{
		Name: req.Name, Slug: req.Slug, Description: req.Description,
	})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, category, "Category created successfully")
}

func (h *Handler) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusOK, tags, "Tags retrieved successfully")
}

type createTagRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=100"`
}

func (h *Handler) createTag(w http.ResponseWriter, r *http.Request, principal *auth.Principal) {
	var req createTagRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, httpx.FieldErrors(err))
		return
	}
	tag, err := h.service.CreateTag(r.Context(), principal, CreateTagInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		httpx.RespondError(w, r, h.logger, err)
		return
	}
	httpx.Success(w, http.StatusCreated, tag, "Tag created successfully")
}
