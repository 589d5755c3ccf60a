// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

// Package metrics defines the Prometheus instrumentation for ShelfScout.
//
// All collectors are registered on the default registry via promauto and
// exposed by the /metrics endpoint. Helper functions keep call sites free
// of label plumbing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts HTTP requests by method, endpoint and status code.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfscout_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration observes request latency by method and endpoint.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelfscout_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// APIActiveRequests tracks in-flight requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shelfscout_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// RecommendationRequests counts recommendation calls by outcome.
	// Outcomes: served, empty, error.
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfscout_recommendation_requests_total",
			Help: "Total recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendationDuration observes recommendation computation latency.
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shelfscout_recommendation_duration_seconds",
			Help:    "Recommendation computation duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	// RecommendationsReturned observes how many product names each call yields.
	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shelfscout_recommendations_returned",
			Help:    "Number of product names returned per recommendation call",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
	)

	// LocateLookups counts location lookups by result (hit, miss).
	LocateLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfscout_locate_lookups_total",
			Help: "Total product location lookups by result",
		},
		[]string{"result"},
	)

	// CatalogReloads counts catalog reloads by result (ok, error).
	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfscout_catalog_reloads_total",
			Help: "Total catalog reload attempts by result",
		},
		[]string{"result"},
	)

	// CatalogProducts tracks the product count of the current snapshot.
	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shelfscout_catalog_products",
			Help: "Number of products in the current catalog snapshot",
		},
	)

	// CatalogSnapshotVersion tracks the current snapshot version.
	CatalogSnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shelfscout_catalog_snapshot_version",
			Help: "Version of the current catalog snapshot",
		},
	)

	// PurchaseEvents counts recorded purchase events.
	PurchaseEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shelfscout_purchase_events_total",
			Help: "Total purchase events recorded",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one recommendation call.
func RecordRecommendation(outcome string, returned int, duration time.Duration) {
	RecommendationRequests.WithLabelValues(outcome).Inc()
	if outcome != "error" {
		RecommendationsReturned.Observe(float64(returned))
	}
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordLocate records one location lookup.
func RecordLocate(hit bool) {
	if hit {
		LocateLookups.WithLabelValues("hit").Inc()
	} else {
		LocateLookups.WithLabelValues("miss").Inc()
	}
}

// RecordCatalogReload records one catalog reload attempt.
func RecordCatalogReload(ok bool) {
	if ok {
		CatalogReloads.WithLabelValues("ok").Inc()
	} else {
		CatalogReloads.WithLabelValues("error").Inc()
	}
}

// SetCatalogSize records the product count of the published snapshot.
func SetCatalogSize(n int) {
	CatalogProducts.Set(float64(n))
}

// SetCatalogVersion records the published snapshot version.
func SetCatalogVersion(v uint64) {
	CatalogSnapshotVersion.Set(float64(v))
}

// RecordPurchases records n purchase events.
func RecordPurchases(n int) {
	PurchaseEvents.Add(float64(n))
}
