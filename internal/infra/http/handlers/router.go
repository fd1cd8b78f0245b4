package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/leadboard/internal/infra/http/middleware"
	"github.com/xavierca1/leadboard/internal/logger"
	"github.com/xavierca1/leadboard/internal/notify"
	"github.com/xavierca1/leadboard/internal/usecase"
)

type RouterDeps struct {
	App            *usecase.App
	Notifications  *notify.Channel
	Health         *HealthHandler
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string
	Log            logger.Logger
}

func NewRouter(d RouterDeps) *chi.Mux {
	leads := NewLeadHandler(d.App)
	agents := NewAgentHandler(d.App, d.Log)
	reports := NewReportHandler(d.App)
	notes := NewNotificationHandler(d.Notifications)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.LimitWrites)
		}

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", leads.List)
			r.Post("/", leads.Create)
			r.Get("/by-status", leads.ByStatus)
			r.Get("/by-agent", leads.ByAgent)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", leads.Get)
				r.Put("/", leads.Update)
				r.Delete("/", leads.Delete)
				r.Get("/comments", leads.Comments)
				r.Post("/comments", leads.AddComment)
			})
		})

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", agents.List)
			r.Post("/", agents.Create)
			r.Delete("/{id}", agents.Delete)
		})
		r.Get("/tags", agents.Tags)
		r.Post("/tags", agents.CreateTag)
		r.Get("/session", agents.Session)
		r.Put("/session/{agentId}", agents.SetSession)

		r.Get("/dashboard", reports.Dashboard)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reports.Summary)
			r.Get("/last-week", reports.LastWeek)
			r.Get("/pipeline", reports.Pipeline)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notes.List)
			r.Delete("/", notes.DismissAll)
			r.Delete("/{id}", notes.Dismiss)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(w, http.StatusNotFound, "NotFound", "Resource not found")
	})
	return r
}
