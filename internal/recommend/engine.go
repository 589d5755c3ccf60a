// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/metrics"
)

// Config holds recommendation engine settings.
type Config struct {
	// DefaultK is the neighbor count used when a caller passes k <= 0.
	DefaultK int

	// MaxK caps the neighbor count per purchased product.
	MaxK int
}

// DefaultConfig returns production-ready engine defaults.
func DefaultConfig() Config {
	return Config{
		DefaultK: 2,
		MaxK:     25,
	}
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	if c.DefaultK < 1 {
		return fmt.Errorf("default k must be at least 1, got %d", c.DefaultK)
	}
	if c.MaxK < 1 {
		return fmt.Errorf("max k must be at least 1, got %d", c.MaxK)
	}
	if c.DefaultK > c.MaxK {
		return fmt.Errorf("default k %d exceeds max k %d", c.DefaultK, c.MaxK)
	}
	return nil
}

// HistoryProvider supplies a user's purchase sequence.
// Satisfied by *history.Store; mocked in tests.
type HistoryProvider interface {
	Get(userID string) []int
}

// cachedIndex pairs a nearest-neighbor index with the snapshot version
// it was built from.
type cachedIndex struct {
	version uint64
	index   *Index
}

// Engine produces product recommendations from purchase history.
//
// For each product the user purchased, in purchase order, the engine
// queries the k nearest catalog products by cosine distance and emits
// each non-self neighbor's name in rank order. Names recommended for
// several purchases stay duplicated in the output: repetition is a
// relevance signal the caller may aggregate as it sees fit.
//
// The nearest-neighbor index is cached per catalog snapshot version
// and rebuilt with a build-then-swap when the snapshot changes, so
// concurrent queries always see a complete index.
type Engine struct {
	catalog *catalog.Store
	history HistoryProvider
	config  Config
	logger  zerolog.Logger

	// buildMu serializes index rebuilds; queries never block on it
	// unless the cache is stale.
	buildMu sync.Mutex
	cached  atomic.Pointer[cachedIndex]
}

// NewEngine creates a recommendation engine over the given catalog and
// history stores.
func NewEngine(cat *catalog.Store, hist HistoryProvider, cfg Config, logger zerolog.Logger) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	if hist == nil {
		return nil, fmt.Errorf("history provider is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return &Engine{
		catalog: cat,
		history: hist,
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend returns recommended product names for a user.
//
// k <= 0 selects the configured default; values above the configured
// max are capped. A user with no recorded history gets an empty,
// non-nil slice and no error. Identical snapshot and history always
// produce identical output.
func (e *Engine) Recommend(ctx context.Context, userID string, k int) ([]string, error) {
	start := time.Now()

	if k <= 0 {
		k = e.config.DefaultK
	}
	if k > e.config.MaxK {
		k = e.config.MaxK
	}

	purchased := e.history.Get(userID)
	if len(purchased) == 0 {
		metrics.RecordRecommendation("empty", 0, time.Since(start))
		return []string{}, nil
	}

	snap := e.catalog.Snapshot()
	idx, err := e.indexFor(snap)
	if err != nil {
		metrics.RecordRecommendation("error", 0, time.Since(start))
		return nil, err
	}

	names := make([]string, 0, len(purchased)*k)
	for _, id := range purchased {
		if err := ctx.Err(); err != nil {
			metrics.RecordRecommendation("error", 0, time.Since(start))
			return nil, err
		}
		if _, ok := snap.Get(id); !ok {
			metrics.RecordRecommendation("error", 0, time.Since(start))
			return nil, fmt.Errorf("%w: product %d for user %s", ErrInvalidHistoryReference, id, userID)
		}
		for _, nb := range idx.Nearest(id, k) {
			if nb.ID == id {
				continue
			}
			p, _ := snap.Get(nb.ID)
			names = append(names, p.Name)
		}
	}

	outcome := "served"
	if len(names) == 0 {
		outcome = "empty"
	}
	metrics.RecordRecommendation(outcome, len(names), time.Since(start))

	e.logger.Debug().
		Str("user", userID).
		Int("k", k).
		Int("purchased", len(purchased)).
		Int("returned", len(names)).
		Uint64("snapshot_version", snap.Version()).
		Msg("recommendations computed")

	return names, nil
}

// indexFor returns the nearest-neighbor index for the given snapshot,
// reusing the cached one when the version matches.
func (e *Engine) indexFor(snap *catalog.Snapshot) (*Index, error) {
	if c := e.cached.Load(); c != nil && c.version == snap.Version() {
		return c.index, nil
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	// Another query may have rebuilt while we waited for the lock.
	if c := e.cached.Load(); c != nil && c.version == snap.Version() {
		return c.index, nil
	}

	idx, err := NewIndex(snap)
	if err != nil {
		return nil, fmt.Errorf("build neighbor index for snapshot %d: %w", snap.Version(), err)
	}
	e.cached.Store(&cachedIndex{version: snap.Version(), index: idx})

	e.logger.Info().
		Uint64("snapshot_version", snap.Version()).
		Int("products", idx.Len()).
		Msg("neighbor index rebuilt")

	return idx, nil
}
