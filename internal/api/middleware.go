// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package api

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/shelfscout/shelfscout/internal/logging"
)

// MiddlewareConfig holds CORS and rate limiting settings for the router.
type MiddlewareConfig struct {
	// CORSOrigins lists allowed origins. Default: ["*"].
	CORSOrigins []string

	// RateLimitRequests is the request budget per window per client IP.
	RateLimitRequests int

	// RateLimitWindow is the rate limit window.
	RateLimitWindow time.Duration

	// RateLimitDisabled turns rate limiting off entirely.
	RateLimitDisabled bool
}

// DefaultMiddlewareConfig returns permissive defaults suitable for
// development.
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		CORSOrigins:       []string{"*"},
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// CORS builds the CORS middleware from the config.
func (c MiddlewareConfig) CORS() func(http.Handler) http.Handler {
	origins := c.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimit builds the per-IP rate limiter. Returns a pass-through
// when rate limiting is disabled.
func (c MiddlewareConfig) RateLimit() func(http.Handler) http.Handler {
	if c.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		c.RateLimitRequests,
		c.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}

// RequestIDWithLogging injects a request ID into the context and echoes
// it in the X-Request-ID response header. It honors an inbound
// X-Request-ID from trusted clients, falling back to chi's generated
// ID or a fresh short UUID.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = chimiddleware.GetReqID(r.Context())
			}
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
		return chimiddleware.RequestID(inner)
	}
}
