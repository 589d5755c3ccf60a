// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

// Command server runs the ShelfScout HTTP service.
//
// Startup order: load configuration, initialize logging, load the
// product catalog (and seed purchase history from its optional
// purchase_history block), build the recommendation engine and the
// location index, then hand the HTTP server and the optional catalog
// file watcher to the supervision tree. SIGINT/SIGTERM trigger a
// graceful shutdown through context cancellation.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shelfscout/shelfscout/internal/api"
	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/config"
	"github.com/shelfscout/shelfscout/internal/history"
	"github.com/shelfscout/shelfscout/internal/location"
	"github.com/shelfscout/shelfscout/internal/logging"
	"github.com/shelfscout/shelfscout/internal/recommend"
	"github.com/shelfscout/shelfscout/internal/supervisor"
	"github.com/shelfscout/shelfscout/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("catalog", cfg.Catalog.Path).
		Str("feature_policy", cfg.Catalog.FeaturePolicy).
		Msg("shelfscout starting")

	policy, err := catalog.PolicyByName(cfg.Catalog.FeaturePolicy)
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid feature policy")
	}

	store := catalog.NewStore(policy, logging.WithComponent("catalog"))
	hist := history.NewStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	doc, err := store.LoadFile(ctx, cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("failed to load catalog")
	}
	if len(doc.PurchaseHistory) > 0 {
		hist.Seed(doc.PurchaseHistory)
		logging.Info().Int("users", len(doc.PurchaseHistory)).Msg("purchase history seeded from catalog file")
	}

	engine, err := recommend.NewEngine(store, hist, recommend.Config{
		DefaultK: cfg.Recommend.DefaultK,
		MaxK:     cfg.Recommend.MaxK,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build recommendation engine")
	}

	// Reload re-reads products only; recorded purchase history is live
	// state and survives catalog reloads.
	reload := func(ctx context.Context) error {
		_, err := store.LoadFile(ctx, cfg.Catalog.Path)
		return err
	}

	handler := api.NewHandler(api.HandlerConfig{
		Catalog:   store,
		History:   hist,
		Engine:    engine,
		Locations: location.NewIndex(store),
		Reload:    reload,
		Timeout:   cfg.Server.Timeout,
		Logger:    logging.WithComponent("api"),
	})

	router := api.NewRouter(handler, api.MiddlewareConfig{
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitReqs,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	if cfg.Catalog.Watch {
		watcher := catalog.NewWatcher(cfg.Catalog.Path, reload, logging.WithComponent("catalog-watcher"))
		tree.AddDataService(watcher)
	}

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("shelfscout ready")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("supervisor tree failed")
	}

	logging.Info().Msg("shelfscout stopped")
}
