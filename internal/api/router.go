// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shelfscout/shelfscout/internal/middleware"
)

// NewRouter builds the chi router with the full middleware stack.
//
// Layout:
//
//	GET  /api/v1/recommendations/user/{userID}?k=
//	GET  /api/v1/locations?name=
//	GET  /api/v1/products
//	GET  /api/v1/products/{id}
//	POST /api/v1/users/{userID}/purchases
//	POST /api/v1/catalog/reload
//	GET  /api/v1/health/live
//	GET  /api/v1/health/ready
//	GET  /metrics
//
// Health and metrics bypass the rate limiter so probes and scrapes
// keep working under load.
func NewRouter(h *Handler, mw MiddlewareConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(middleware.Prometheus)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())

			r.Get("/recommendations/user/{userID}", h.Recommendations)
			r.Get("/locations", h.Locate)
			r.Get("/products", h.ListProducts)
			r.Get("/products/{id}", h.GetProduct)
			r.Post("/users/{userID}/purchases", h.RecordPurchases)
			r.Post("/catalog/reload", h.ReloadCatalog)
		})

		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
