// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shelfscout/shelfscout/internal/metrics"
)

func TestPrometheusRecordsRequest(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Prometheus)
	r.Get("/api/v1/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/products/{id}", "418"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/7", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}

	after := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/products/{id}", "418"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}

func TestPrometheusDefaultsStatusTo200(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Prometheus)
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok")) // implicit 200, no WriteHeader call
	})

	before := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/ok", "200"))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(
		metrics.APIRequestsTotal.WithLabelValues("GET", "/ok", "200"))
	if after != before+1 {
		t.Errorf("counter = %v, want %v", after, before+1)
	}
}
