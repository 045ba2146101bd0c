package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/blog"
	"github.com/nyasinga/aylfwebsite/internal/donations"
	"github.com/nyasinga/aylfwebsite/internal/events"
	"github.com/nyasinga/aylfwebsite/internal/media"
	"github.com/nyasinga/aylfwebsite/internal/observability"
	"github.com/nyasinga/aylfwebsite/internal/pages"
	"github.com/nyasinga/aylfwebsite/internal/users"
	"github.com/nyasinga/aylfwebsite/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthHandler      *auth.Handler
	BlogHandler      *blog.Handler
	EventsHandler    *events.Handler
	DonationsHandler *donations.Handler
	MediaHandler     *media.Handler
	PagesHandler     *pages.Handler
	UsersHandler     *users.Handler
	JobsHandler      *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		if params.BlogHandler != nil {
			r.Route("/blog", params.BlogHandler.MountRoutes)
		}
		if params.EventsHandler != nil {
			r.Route("/events", params.EventsHandler.MountRoutes)
		}
		if params.DonationsHandler != nil {
			r.Route("/donations", params.DonationsHandler.MountRoutes)
		}
		if params.MediaHandler != nil {
			r.Route("/media", params.MediaHandler.MountRoutes)
		}
		if params.PagesHandler != nil {
			r.Route("/pages", params.PagesHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/users", params.UsersHandler.MountRoutes)
		}
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
