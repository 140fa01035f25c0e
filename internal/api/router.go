// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streamkeep/streamkeep/internal/config"
	"github.com/streamkeep/streamkeep/internal/middleware"
)

// NewRouter configures all HTTP routes.
//
// Mutations on catalog records require the admin role; reads and history
// require any authenticated session. Login carries the strictest rate
// limit. The rate limiters are constructed here and owned by the router,
// not package-level state, so multiple routers never share counters.
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		// Brute-force protection on login only
		r.With(httprate.LimitByIP(cfg.RateLimit.LoginPerMinute, time.Minute)).
			Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
			r.Use(h.Authenticate)

			// reads for any authenticated session
			r.Get("/movies", h.ListMovies)
			r.Get("/movies/{id}", h.GetMovie)
			r.Get("/categories", h.ListCategories)
			r.Get("/series", h.ListSeries)
			r.Get("/series/{slug}", h.GetSeries)
			r.Post("/views/movies/{id}", h.IncrementMovieView)
			r.Post("/views/series/{id}", h.IncrementSeriesView)
			r.Get("/history", h.GetHistory)
			r.Post("/history", h.RecordHistory)

			// admin-only mutations
			r.Group(func(r chi.Router) {
				r.Use(h.RequireAdmin)

				r.Post("/movies", h.CreateMovie)
				r.Put("/movies/{id}", h.UpdateMovie)
				r.Delete("/movies/{id}", h.DeleteMovie)

				r.Post("/categories", h.CreateCategory)
				r.Put("/categories/{id}", h.UpdateCategory)
				r.Delete("/categories/{id}", h.DeleteCategory)

				r.Post("/series", h.CreateOrMergeSeries)
				r.Put("/series/{slug}", h.UpdateSeries)
				r.Delete("/series/{slug}", h.DeleteSeries)
				r.Post("/series/{slug}/episodes", h.MergeEpisode)

				r.Get("/users", h.ListUsers)
				r.Post("/users", h.CreateUser)
				r.Put("/users/{id}", h.UpdateUser)
				r.Delete("/users/{id}", h.DeleteUser)
			})
		})
	})

	return r
}
