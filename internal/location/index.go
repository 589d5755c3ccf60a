// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

// Package location resolves product names to aisle/shelf locations.
//
// The index is a derived read model over the catalog: a map keyed by
// normalized product name, rebuilt with a build-then-swap whenever the
// catalog snapshot version changes.
package location

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shelfscout/shelfscout/internal/catalog"
	"github.com/shelfscout/shelfscout/internal/metrics"
)

// ErrLocationNotFound is returned when no product matches the name.
var ErrLocationNotFound = errors.New("no product with that name")

// Location is a product's in-store position.
type Location struct {
	Aisle string `json:"aisle"`
	Shelf int    `json:"shelf"`
}

// view is one immutable name-to-location map for a snapshot version.
type view struct {
	version uint64
	byName  map[string]Location
}

// Index answers locate queries against the current catalog snapshot.
// Safe for concurrent use.
type Index struct {
	catalog *catalog.Store

	// buildMu serializes view rebuilds; lookups only block on it when
	// the cached view is stale.
	buildMu sync.Mutex
	cached  atomic.Pointer[view]
}

// NewIndex creates a location index over the given catalog store.
func NewIndex(cat *catalog.Store) *Index {
	return &Index{catalog: cat}
}

// Locate returns the location of the product with the given name.
//
// Matching is exact after normalization: surrounding whitespace is
// trimmed and case is folded, so "  FOOTBALL " finds "Football".
// When a catalog carries duplicate names, the first product in catalog
// order wins. A miss returns ErrLocationNotFound.
func (ix *Index) Locate(name string) (Location, error) {
	key := Normalize(name)

	loc, ok := ix.currentView().byName[key]
	metrics.RecordLocate(ok)
	if !ok {
		return Location{}, fmt.Errorf("%w: %q", ErrLocationNotFound, strings.TrimSpace(name))
	}
	return loc, nil
}

// Normalize folds a product name for lookup: trim then lowercase.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// currentView returns the view for the current snapshot, rebuilding it
// if the snapshot version moved.
func (ix *Index) currentView() *view {
	snap := ix.catalog.Snapshot()

	if v := ix.cached.Load(); v != nil && v.version == snap.Version() {
		return v
	}

	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	if v := ix.cached.Load(); v != nil && v.version == snap.Version() {
		return v
	}

	byName := make(map[string]Location, snap.Len())
	for _, p := range snap.Products() {
		key := Normalize(p.Name)
		if _, exists := byName[key]; exists {
			continue
		}
		byName[key] = Location{Aisle: p.Aisle, Shelf: p.Shelf}
	}

	next := &view{version: snap.Version(), byName: byName}
	ix.cached.Store(next)
	return next
}
