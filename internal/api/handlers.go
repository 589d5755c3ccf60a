// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/history"
	"github.com/shelfscout/shelfscout/internal/location"
	"github.com/shelfscout/shelfscout/internal/logging"
	"github.com/shelfscout/shelfscout/internal/metrics"
	"github.com/shelfscout/shelfscout/internal/recommend"
	"github.com/shelfscout/shelfscout/internal/validation"
)

// HandlerConfig wires the handler's dependencies.
type HandlerConfig struct {
	Catalog   *catalog.Store
	History   *history.Store
	Engine    *recommend.Engine
	Locations *location.Index

	// Reload re-reads the catalog file. Nil disables the reload endpoint.
	Reload func(context.Context) error

	// Timeout bounds per-request handler work. Default: 30s.
	Timeout time.Duration

	Logger zerolog.Logger
}

// Handler serves the ShelfScout HTTP API.
type Handler struct {
	catalog   *catalog.Store
	history   *history.Store
	engine    *recommend.Engine
	locations *location.Index
	reload    func(context.Context) error
	timeout   time.Duration
	resp      *ResponseWriter
	logger    zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Handler{
		catalog:   cfg.Catalog,
		history:   cfg.History,
		engine:    cfg.Engine,
		locations: cfg.Locations,
		reload:    cfg.Reload,
		timeout:   cfg.Timeout,
		resp:      NewResponseWriter(cfg.Logger),
		logger:    cfg.Logger,
	}
}

type productPayload struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Aisle    string `json:"aisle"`
	Shelf    int    `json:"shelf"`
}

func toPayload(p catalog.Product) productPayload {
	return productPayload{ID: p.ID, Name: p.Name, Category: p.Category, Aisle: p.Aisle, Shelf: p.Shelf}
}

// recommendationsQuery validates the optional k query parameter.
type recommendationsQuery struct {
	K int `validate:"omitempty,max=1000"`
}

// Recommendations handles GET /api/v1/recommendations/user/{userID}.
//
// An unknown user is a valid query with an empty result, not an error.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.resp.ValidationError(w, r, "userID path parameter is required", nil)
		return
	}

	k := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.resp.ValidationError(w, r, "k must be an integer", map[string]interface{}{"k": raw})
			return
		}
		k = parsed
	}
	if verr := validation.ValidateStruct(&recommendationsQuery{K: k}); verr != nil {
		apiErr := verr.ToAPIError()
		h.resp.Error(w, r, http.StatusBadRequest, CodeValidationFailed, apiErr.Message, apiErr.Details)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names, err := h.engine.Recommend(ctx, userID, k)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrInvalidHistoryReference):
			h.resp.Error(w, r, http.StatusInternalServerError, CodeInvalidHistoryReference,
				"purchase history references a product missing from the catalog", nil)
		case errors.Is(err, recommend.ErrDegenerateVector):
			h.resp.Error(w, r, http.StatusInternalServerError, CodeDegenerateVector,
				"catalog feature vectors are unusable for similarity", nil)
		default:
			h.resp.InternalError(w, r, err)
		}
		return
	}

	h.resp.Success(w, r, map[string]interface{}{
		"user_id":  userID,
		"products": names,
		"count":    len(names),
	})
}

// Locate handles GET /api/v1/locations?name=.
func (h *Handler) Locate(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if location.Normalize(name) == "" {
		h.resp.ValidationError(w, r, "name query parameter is required", nil)
		return
	}

	loc, err := h.locations.Locate(name)
	if err != nil {
		if errors.Is(err, location.ErrLocationNotFound) {
			h.resp.NotFound(w, r, "no product with that name")
			return
		}
		h.resp.InternalError(w, r, err)
		return
	}

	h.resp.Success(w, r, map[string]interface{}{
		"name":  name,
		"aisle": loc.Aisle,
		"shelf": loc.Shelf,
	})
}

// ListProducts handles GET /api/v1/products.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()

	products := make([]productPayload, 0, snap.Len())
	for _, p := range snap.Products() {
		products = append(products, toPayload(p))
	}

	h.resp.Success(w, r, map[string]interface{}{
		"products": products,
		"count":    len(products),
		"version":  snap.Version(),
	})
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.resp.ValidationError(w, r, "id must be an integer", nil)
		return
	}

	p, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			h.resp.NotFound(w, r, "product not found")
			return
		}
		h.resp.InternalError(w, r, err)
		return
	}

	h.resp.Success(w, r, toPayload(p))
}

// purchaseRequest is the body of POST /api/v1/users/{userID}/purchases.
type purchaseRequest struct {
	ProductIDs []int `json:"product_ids" validate:"required,min=1"`
}

// RecordPurchases handles POST /api/v1/users/{userID}/purchases.
// Every product ID must exist in the current catalog snapshot.
func (h *Handler) RecordPurchases(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.resp.ValidationError(w, r, "userID path parameter is required", nil)
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.resp.BadRequest(w, r, "invalid JSON body")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		h.resp.Error(w, r, http.StatusBadRequest, CodeValidationFailed, apiErr.Message, apiErr.Details)
		return
	}

	snap := h.catalog.Snapshot()
	var missing []int
	for _, id := range req.ProductIDs {
		if _, ok := snap.Get(id); !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		h.resp.ValidationError(w, r, "unknown product ids", map[string]interface{}{
			"missing": missing,
		})
		return
	}

	h.history.Record(userID, req.ProductIDs...)

	logger := logging.Ctx(r.Context())
	logger.Info().
		Str("user", userID).
		Int("events", len(req.ProductIDs)).
		Msg("purchases recorded")

	h.resp.Success(w, r, map[string]interface{}{
		"user_id":  userID,
		"recorded": len(req.ProductIDs),
	})
}

// ReloadCatalog handles POST /api/v1/catalog/reload.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if h.reload == nil {
		h.resp.Error(w, r, http.StatusNotImplemented, CodeBadRequest, "catalog reload is not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.reload(ctx); err != nil {
		metrics.RecordCatalogReload(false)
		h.resp.InternalError(w, r, err)
		return
	}
	metrics.RecordCatalogReload(true)

	snap := h.catalog.Snapshot()
	h.resp.Success(w, r, map[string]interface{}{
		"version":  snap.Version(),
		"products": snap.Len(),
	})
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.resp.Success(w, r, map[string]interface{}{"status": "ok"})
}

// HealthReady handles GET /api/v1/health/ready.
// Ready once the first catalog snapshot has been loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	snap := h.catalog.Snapshot()
	if snap.Version() == 0 {
		h.resp.Error(w, r, http.StatusServiceUnavailable, CodeNotReady, "catalog not loaded", nil)
		return
	}
	h.resp.Success(w, r, map[string]interface{}{
		"status":           "ok",
		"catalog_version":  snap.Version(),
		"catalog_products": snap.Len(),
	})
}
