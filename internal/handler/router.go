// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/digitalislam/dicms/internal/middleware"
)

// RouterConfig configures the HTTP middleware stack.
type RouterConfig struct {
	IsDevelopment  bool
	CORSOrigins    []string
	CSRF           middleware.CSRFConfig
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	// UploadsDir is served at /uploads/ when set.
	UploadsDir string
	// RequestLog enables chi's request logger.
	RequestLog bool
}

// Routes builds the router for the whole API.
func (h *Handler) Routes(cfg RouterConfig, health *HealthHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	if cfg.RequestLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	rps, burst := cfg.RateLimitRPS, cfg.RateLimitBurst
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 10
	}
	limiter := middleware.NewRateLimiter(rps, burst)

	r.Get("/health", health.Health)
	if cfg.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(cfg.UploadsDir)))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/content", h.Content)
		r.Get("/site", h.Site)
		r.Get("/reflections", h.Inspiration)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware())
			r.Post("/volunteers", h.CreateVolunteer)
			r.Post("/donations", h.CreateDonation)
			r.Post("/reflections/ask", h.Ask)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.SkipCSRFForBearer)
			r.Use(middleware.CSRF(cfg.CSRF))
			if h.sessions != nil {
				r.Use(h.sessions.LoadAndSave)
			}

			r.With(limiter.Middleware()).Post("/session", h.CreateSession)
			r.Delete("/session", h.DeleteSession)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(middleware.AdminAuthConfig{
					Verifier:  h.verifier,
					Allowlist: h.allowlist,
					Sessions:  h.sessions,
					Logger:    h.logger,
				}))

				r.Get("/status", h.Status)
				r.Get("/collections/{name}", h.Collection)
				r.Post("/collections/{name}/reload", h.ReloadCollection)

				r.Get("/hero", h.Hero)
				r.Patch("/hero", h.UpdateHero)
				r.Post("/hero/media", h.UpdateHeroMedia)

				r.Get("/gallery", listHandler(h, h.data.Gallery))
				r.Post("/gallery", createHandler(h, h.data.Gallery))
				r.Post("/gallery/batch", h.UploadGallery)
				r.Patch("/gallery/{id}", updateHandler(h, h.data.Gallery))
				r.Delete("/gallery/{id}", deleteHandler(h, h.data.Gallery))

				r.Get("/projects", listHandler(h, h.data.Projects))
				r.Post("/projects", createHandler(h, h.data.Projects))
				r.Post("/projects/seed", h.SeedProjects)
				r.Patch("/projects/{id}", updateHandler(h, h.data.Projects))
				r.Delete("/projects/{id}", deleteHandler(h, h.data.Projects))

				r.Get("/carousel", listHandler(h, h.data.Carousel))
				r.Post("/carousel", createHandler(h, h.data.Carousel))
				r.Patch("/carousel/{id}", updateHandler(h, h.data.Carousel))
				r.Delete("/carousel/{id}", deleteHandler(h, h.data.Carousel))

				r.Get("/volunteers", h.Volunteers)
				r.Get("/donors", h.Donors)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteNotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "bad_request", "Method not allowed", nil)
	})

	return r
}

// noDirListing rejects directory paths.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			WriteNotFound(w, "Not found")
			return
		}
		next.ServeHTTP(w, r)
	})
}
