package router

import (
	"net/http"

	"github.com/cleanclear-sd/lead-api/internal/auth"
	"github.com/cleanclear-sd/lead-api/internal/config"
	"github.com/cleanclear-sd/lead-api/internal/http/handler"
	"github.com/cleanclear-sd/lead-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/cleanclear-sd/lead-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	healthHandler       *handler.HealthHandler
	authHandler         *handler.AuthHandler
	quoteHandler        *handler.QuoteHandler
	quoteSessionHandler *handler.QuoteSessionHandler
	leadHandler         *handler.LeadHandler
	dashboardHandler    *handler.DashboardHandler
	contentHandler      *handler.ContentHandler
	siteImageHandler    *handler.SiteImageHandler
	customerHandler     *handler.CustomerHandler
	jobHandler          *handler.JobHandler
	contactHandler      *handler.ContactHandler
	// realtimeHandler is nil when the change feed is disabled
	realtimeHandler     *handler.RealtimeHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	quoteHandler *handler.QuoteHandler,
	quoteSessionHandler *handler.QuoteSessionHandler,
	leadHandler *handler.LeadHandler,
	dashboardHandler *handler.DashboardHandler,
	contentHandler *handler.ContentHandler,
	siteImageHandler *handler.SiteImageHandler,
	customerHandler *handler.CustomerHandler,
	jobHandler *handler.JobHandler,
	contactHandler *handler.ContactHandler,
	realtimeHandler *handler.RealtimeHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		healthHandler:       healthHandler,
		authHandler:         authHandler,
		quoteHandler:        quoteHandler,
		quoteSessionHandler: quoteSessionHandler,
		leadHandler:         leadHandler,
		dashboardHandler:    dashboardHandler,
		contentHandler:      contentHandler,
		siteImageHandler:    siteImageHandler,
		customerHandler:     customerHandler,
		jobHandler:          jobHandler,
		contactHandler:      contactHandler,
		realtimeHandler:     realtimeHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/health", rt.healthHandler.Live)
	r.Get("/health/db", rt.healthHandler.Database)
	r.Get("/health/ready", rt.healthHandler.Ready)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// The change feed is long-lived and must not inherit the request timeout
		if rt.realtimeHandler != nil {
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.Authenticate)
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Get("/admin/realtime", rt.realtimeHandler.Serve)
			})
		}

		r.Group(func(r chi.Router) {
			if d := rt.cfg.Server.RequestTimeoutDuration(); d > 0 {
				r.Use(chimw.Timeout(d))
			}

			// Public site
			r.Get("/catalog", rt.quoteHandler.Catalog)
			r.With(rt.rateLimiter.LimitQuoteSubmissions).Post("/quotes", rt.quoteHandler.Submit)
			r.Get("/content/{section}", rt.contentHandler.Get)
			r.Get("/site-images", rt.siteImageHandler.Get)
			r.With(rt.rateLimiter.LimitQuoteSubmissions).Post("/contact", rt.contactHandler.Submit)

			r.Route("/quote-sessions", func(r chi.Router) {
				r.Post("/", rt.quoteSessionHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", rt.quoteSessionHandler.Get)
					r.Delete("/", rt.quoteSessionHandler.Delete)
					r.Patch("/draft", rt.quoteSessionHandler.UpdateDraft)
					r.Post("/next", rt.quoteSessionHandler.Next)
					r.Post("/back", rt.quoteSessionHandler.Back)
					r.With(rt.rateLimiter.LimitQuoteSubmissions).Post("/submit", rt.quoteSessionHandler.Submit)
					r.Post("/restart", rt.quoteSessionHandler.Restart)
				})
			})

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.Authenticate)
				r.Use(rt.rateLimiter.Limit)

				r.Get("/auth/me", rt.authHandler.Me)

				r.Route("/admin", func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireAdmin)

					r.Get("/dashboard", rt.dashboardHandler.GetStats)

					r.Route("/leads", func(r chi.Router) {
						r.Get("/", rt.leadHandler.List)
						r.Get("/board", rt.leadHandler.Board)
						r.Get("/{id}", rt.leadHandler.GetByID)
						r.Patch("/{id}/status", rt.leadHandler.UpdateStatus)
						r.Post("/{id}/convert", rt.customerHandler.ConvertLead)
					})

					r.Route("/customers", func(r chi.Router) {
						r.Get("/", rt.customerHandler.List)
						r.Post("/", rt.customerHandler.Create)
						r.Get("/{id}", rt.customerHandler.GetByID)
						r.Put("/{id}", rt.customerHandler.Update)
						r.Delete("/{id}", rt.customerHandler.Delete)
					})

					r.Route("/jobs", func(r chi.Router) {
						r.Get("/", rt.jobHandler.List)
						r.Post("/", rt.jobHandler.Create)
						r.Get("/upcoming", rt.jobHandler.Upcoming)
						r.Get("/{id}", rt.jobHandler.GetByID)
						r.Put("/{id}", rt.jobHandler.Update)
						r.Patch("/{id}/status", rt.jobHandler.UpdateStatus)
						r.Delete("/{id}", rt.jobHandler.Delete)
					})

					r.Route("/contact-submissions", func(r chi.Router) {
						r.Get("/", rt.contactHandler.List)
						r.Delete("/{id}", rt.contactHandler.Delete)
					})

					r.Route("/content", func(r chi.Router) {
						r.Get("/sections", rt.contentHandler.Sections)
						r.Put("/{section}", rt.contentHandler.Update)
					})

					r.Route("/site-images", func(r chi.Router) {
						r.Get("/", rt.siteImageHandler.ListKeys)
						r.Post("/", rt.siteImageHandler.Upload)
					})
				})
			})
		})
	})

	return r
}
