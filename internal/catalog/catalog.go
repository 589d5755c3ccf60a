// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package catalog

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/shelfscout/shelfscout/internal/metrics"
)

// ErrProductNotFound is returned when a product ID is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// Product is a single catalog entry. Every product has exactly one
// aisle/shelf location. Products are immutable within a snapshot.
type Product struct {
	// ID is the unique product identifier.
	ID int `json:"id"`

	// Name is the display name, expected unique case-insensitively.
	Name string `json:"name"`

	// Category groups related products (e.g. "Football", "Tennis").
	Category string `json:"category"`

	// Aisle is the in-store aisle label (e.g. "A1").
	Aisle string `json:"aisle"`

	// Shelf is the shelf number within the aisle.
	Shelf int `json:"shelf"`
}

// Snapshot is an immutable view of the catalog: the product list in
// catalog order, an ID index, and the feature vectors derived by the
// store's policy. Snapshots are safe for concurrent reads; callers
// must not modify the returned slices.
type Snapshot struct {
	version  uint64
	products []Product
	byID     map[int]int
	vectors  [][]float64
	policy   string
}

// Version returns the monotonically increasing snapshot version.
// Version 0 is the empty snapshot published before the first Load.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of products in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.products)
}

// Products returns the products in catalog order.
func (s *Snapshot) Products() []Product {
	return s.products
}

// Get returns the product with the given ID.
func (s *Snapshot) Get(id int) (Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Vectors returns the feature vectors, index-aligned with Products().
func (s *Snapshot) Vectors() [][]float64 {
	return s.vectors
}

// PolicyName returns the name of the feature policy that built the vectors.
func (s *Snapshot) PolicyName() string {
	return s.policy
}

// Store holds the current catalog snapshot.
//
// Reads (Get, All, Snapshot) are lock-free over the published snapshot.
// Load builds a complete replacement snapshot off to the side and
// publishes it with a single atomic pointer swap, so readers never
// observe partial state.
type Store struct {
	policy FeaturePolicy
	logger zerolog.Logger

	// loadMu serializes Load calls; readers never take it.
	loadMu sync.Mutex
	snap   atomic.Pointer[Snapshot]
}

// NewStore creates a catalog store using the given feature policy.
// The store starts with an empty snapshot at version 0.
func NewStore(policy FeaturePolicy, logger zerolog.Logger) *Store {
	s := &Store{
		policy: policy,
		logger: logger,
	}
	s.snap.Store(&Snapshot{
		version: 0,
		byID:    map[int]int{},
		policy:  policy.Name(),
	})
	return s
}

// Load replaces the catalog with the given products.
//
// The new snapshot, including feature vectors, is built completely
// before it becomes visible. On any error the previous snapshot stays
// published untouched. An empty product list is a valid catalog.
func (s *Store) Load(ctx context.Context, products []Product) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	owned := make([]Product, len(products))
	copy(owned, products)

	byID := make(map[int]int, len(owned))
	for i, p := range owned {
		if _, dup := byID[p.ID]; dup {
			return fmt.Errorf("duplicate product id %d in catalog load", p.ID)
		}
		byID[p.ID] = i
	}

	vectors, err := s.policy.Vectors(owned)
	if err != nil {
		return fmt.Errorf("feature policy %s: %w", s.policy.Name(), err)
	}
	if len(vectors) != len(owned) {
		return fmt.Errorf("feature policy %s returned %d vectors for %d products",
			s.policy.Name(), len(vectors), len(owned))
	}
	for i := 1; i < len(vectors); i++ {
		if len(vectors[i]) != len(vectors[0]) {
			return fmt.Errorf("feature policy %s returned ragged vectors (%d != %d)",
				s.policy.Name(), len(vectors[i]), len(vectors[0]))
		}
	}

	next := &Snapshot{
		version:  s.snap.Load().version + 1,
		products: owned,
		byID:     byID,
		vectors:  vectors,
		policy:   s.policy.Name(),
	}
	s.snap.Store(next)

	metrics.SetCatalogSize(len(owned))
	metrics.SetCatalogVersion(next.version)

	s.logger.Info().
		Uint64("version", next.version).
		Int("products", len(owned)).
		Str("feature_policy", s.policy.Name()).
		Msg("catalog snapshot published")

	return nil
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Get returns the product with the given ID from the current snapshot.
func (s *Store) Get(id int) (Product, error) {
	p, ok := s.snap.Load().Get(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return p, nil
}

// All returns an iterator over the products in catalog order.
// The iterator is restartable: each range over it re-reads the
// then-current snapshot.
func (s *Store) All() iter.Seq[Product] {
	return func(yield func(Product) bool) {
		for _, p := range s.snap.Load().products {
			if !yield(p) {
				return
			}
		}
	}
}
