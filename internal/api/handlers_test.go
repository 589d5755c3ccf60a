// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/history"
	"github.com/shelfscout/shelfscout/internal/location"
	"github.com/shelfscout/shelfscout/internal/recommend"
)

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Meta *struct {
		RequestID string `json:"request_id"`
		Timestamp string `json:"timestamp"`
	} `json:"meta"`
}

func sportingGoods() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Football", Category: "Football", Aisle: "A1", Shelf: 1},
		{ID: 2, Name: "Basketball", Category: "Basketball", Aisle: "A2", Shelf: 2},
		{ID: 3, Name: "Baseball Bat", Category: "Baseball", Aisle: "B1", Shelf: 3},
		{ID: 4, Name: "Tennis Racket", Category: "Tennis", Aisle: "C1", Shelf: 4},
		{ID: 5, Name: "Soccer Ball", Category: "Soccer", Aisle: "D1", Shelf: 5},
	}
}

type testServer struct {
	router  http.Handler
	catalog *catalog.Store
	history *history.Store
}

func newTestServer(t *testing.T, products []catalog.Product, histories map[string][]int, reload func(context.Context) error) *testServer {
	t.Helper()

	store := catalog.NewStore(catalog.OneHotPolicy{}, zerolog.Nop())
	if products != nil {
		if err := store.Load(context.Background(), products); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
	}

	hist := history.NewStore()
	if histories != nil {
		hist.Seed(histories)
	}

	engine, err := recommend.NewEngine(store, hist, recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	handler := NewHandler(HandlerConfig{
		Catalog:   store,
		History:   hist,
		Engine:    engine,
		Locations: location.NewIndex(store),
		Reload:    reload,
		Logger:    zerolog.Nop(),
	})

	mw := DefaultMiddlewareConfig()
	mw.RateLimitDisabled = true

	return &testServer{
		router:  NewRouter(handler, mw),
		catalog: store,
		history: hist,
	}
}

func (ts *testServer) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return rec, env
}

func TestRecommendationsPinnedScenario(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), map[string][]int{"user_1": {1, 2, 3}}, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/user/user_1?k=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatal("expected success envelope")
	}

	raw, ok := env.Data["products"].([]interface{})
	if !ok {
		t.Fatalf("products has unexpected type %T", env.Data["products"])
	}
	want := []string{"Basketball", "Football", "Football"}
	if len(raw) != len(want) {
		t.Fatalf("products = %v, want %v", raw, want)
	}
	for i := range want {
		if raw[i] != want[i] {
			t.Errorf("products[%d] = %v, want %v", i, raw[i], want[i])
		}
	}
	if env.Data["count"].(float64) != 3 {
		t.Errorf("count = %v, want 3", env.Data["count"])
	}
}

func TestRecommendationsUnknownUser(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/user/stranger", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for unknown user", rec.Code)
	}
	products, ok := env.Data["products"].([]interface{})
	if !ok {
		t.Fatalf("products missing or wrong type: %v", env.Data)
	}
	if len(products) != 0 {
		t.Errorf("products = %v, want empty list", products)
	}
}

func TestRecommendationsInvalidK(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/user/user_1?k=lots", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeValidationFailed {
		t.Errorf("error = %+v, want code %s", env.Error, CodeValidationFailed)
	}
}

func TestRecommendationsInvalidHistoryReference(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), map[string][]int{"user_1": {1, 999}}, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/user/user_1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeInvalidHistoryReference {
		t.Errorf("error = %+v, want code %s", env.Error, CodeInvalidHistoryReference)
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantAisle  string
		wantShelf  float64
		wantCode   string
	}{
		{"exact", "Football", http.StatusOK, "A1", 1, ""},
		{"lowercase", "football", http.StatusOK, "A1", 1, ""},
		{"uppercase", "FOOTBALL", http.StatusOK, "A1", 1, ""},
		{"multiword", "Baseball+Bat", http.StatusOK, "B1", 3, ""},
		{"absent", "Cricket+Bat", http.StatusNotFound, "", 0, CodeNotFound},
		{"blank", "", http.StatusBadRequest, "", 0, CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := ts.do(t, http.MethodGet, "/api/v1/locations?name="+tt.query, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				return
			}
			if env.Data["aisle"] != tt.wantAisle {
				t.Errorf("aisle = %v, want %v", env.Data["aisle"], tt.wantAisle)
			}
			if env.Data["shelf"].(float64) != tt.wantShelf {
				t.Errorf("shelf = %v, want %v", env.Data["shelf"], tt.wantShelf)
			}
		})
	}
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env.Data["count"].(float64) != 5 {
		t.Errorf("count = %v, want 5", env.Data["count"])
	}
	if env.Data["version"].(float64) != 1 {
		t.Errorf("version = %v, want 1", env.Data["version"])
	}
}

func TestGetProduct(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/products/3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env.Data["name"] != "Baseball Bat" {
		t.Errorf("name = %v, want Baseball Bat", env.Data["name"])
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/products/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("error = %+v, want code %s", env.Error, CodeNotFound)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/products/banana", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeValidationFailed {
		t.Errorf("error = %+v, want code %s", env.Error, CodeValidationFailed)
	}
}

func TestRecordPurchasesThenRecommend(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/users/user_9/purchases", `{"product_ids": [3]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if env.Data["recorded"].(float64) != 1 {
		t.Errorf("recorded = %v, want 1", env.Data["recorded"])
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/recommendations/user/user_9?k=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	products := env.Data["products"].([]interface{})
	// Purchase of product 3: k=2 nearest are self plus product 1.
	if len(products) != 1 || products[0] != "Football" {
		t.Errorf("products = %v, want [Football]", products)
	}
}

func TestRecordPurchasesRejectsBadInput(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"malformed json", `{"product_ids": [`, CodeBadRequest},
		{"empty ids", `{"product_ids": []}`, CodeValidationFailed},
		{"missing ids", `{}`, CodeValidationFailed},
		{"unknown product", `{"product_ids": [1, 42]}`, CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodPost, "/api/v1/users/user_1/purchases", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}

	// Nothing recorded by the rejected requests.
	if got := ts.history.Get("user_1"); got != nil {
		t.Errorf("history after rejected posts = %v, want nil", got)
	}
}

func TestReloadCatalog(t *testing.T) {
	t.Parallel()

	var calls int
	var ts *testServer
	reload := func(ctx context.Context) error {
		calls++
		return ts.catalog.Load(ctx, sportingGoods()[:2])
	}
	ts = newTestServer(t, sportingGoods(), nil, reload)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if calls != 1 {
		t.Errorf("reload calls = %d, want 1", calls)
	}
	if env.Data["version"].(float64) != 2 {
		t.Errorf("version = %v, want 2", env.Data["version"])
	}
	if env.Data["products"].(float64) != 2 {
		t.Errorf("products = %v, want 2", env.Data["products"])
	}
}

func TestReloadCatalogFailure(t *testing.T) {
	t.Parallel()

	reload := func(context.Context) error { return errors.New("disk gone") }
	ts := newTestServer(t, sportingGoods(), nil, reload)

	rec, env := ts.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeInternalError {
		t.Errorf("error = %+v, want code %s", env.Error, CodeInternalError)
	}
}

func TestReloadCatalogNotConfigured(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/catalog/reload", "")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	loaded := newTestServer(t, sportingGoods(), nil, nil)
	empty := newTestServer(t, nil, nil, nil)

	rec, _ := loaded.do(t, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}

	rec, env := loaded.do(t, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}
	if env.Data["catalog_version"].(float64) != 1 {
		t.Errorf("catalog_version = %v, want 1", env.Data["catalog_version"])
	}

	rec, env = empty.do(t, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status on empty store = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != CodeNotReady {
		t.Errorf("error = %+v, want code %s", env.Error, CodeNotReady)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "shelfscout_") {
		t.Error("expected shelfscout metrics in exposition")
	}
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, sportingGoods(), nil, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/health/live", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}
	if env.Meta == nil || env.Meta.RequestID == "" {
		t.Error("missing request_id in envelope meta")
	}

	// An inbound request ID is honored end to end.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "trace-me-42")
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "trace-me-42" {
		t.Errorf("X-Request-ID = %q, want trace-me-42", got)
	}
}
