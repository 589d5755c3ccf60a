// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/shelfscout/shelfscout/internal/catalog"
)

// Neighbor is one ranked result of a nearest-neighbor query.
type Neighbor struct {
	// ID is the neighboring product's ID.
	ID int

	// Distance is the cosine distance 1 - cos(a, b), in [0, 2].
	Distance float64
}

// Index answers k-nearest-neighbor queries over the feature vectors of
// one catalog snapshot. It is immutable after construction and safe
// for concurrent use.
type Index struct {
	ids     []int
	vectors [][]float64
	norms   []float64
	pos     map[int]int
}

// NewIndex builds a nearest-neighbor index from a snapshot.
//
// Norms are precomputed once here. A zero-magnitude vector makes
// cosine distance undefined, so the build fails with
// ErrDegenerateVector naming the offending product.
func NewIndex(snap *catalog.Snapshot) (*Index, error) {
	products := snap.Products()
	vectors := snap.Vectors()

	idx := &Index{
		ids:     make([]int, len(products)),
		vectors: vectors,
		norms:   make([]float64, len(products)),
		pos:     make(map[int]int, len(products)),
	}

	for i, p := range products {
		norm := math.Sqrt(dot(vectors[i], vectors[i]))
		if norm == 0 {
			return nil, fmt.Errorf("%w: product %d", ErrDegenerateVector, p.ID)
		}
		idx.ids[i] = p.ID
		idx.norms[i] = norm
		idx.pos[p.ID] = i
	}

	return idx, nil
}

// Len returns the number of indexed products.
func (ix *Index) Len() int {
	return len(ix.ids)
}

// Nearest returns the k nearest products to the given product by
// cosine distance, including the product itself (distance 0).
// Returns nil if the ID is not indexed or k is not positive.
//
// Ties are broken by ascending product ID, so results are
// deterministic across calls and across rebuilds of identical data.
func (ix *Index) Nearest(id, k int) []Neighbor {
	i, ok := ix.pos[id]
	if !ok || k <= 0 {
		return nil
	}

	neighbors := make([]Neighbor, 0, len(ix.ids))
	for j := range ix.ids {
		d := 1 - dot(ix.vectors[i], ix.vectors[j])/(ix.norms[i]*ix.norms[j])
		neighbors = append(neighbors, Neighbor{ID: ix.ids[j], Distance: d})
	}

	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].Distance != neighbors[b].Distance {
			return neighbors[a].Distance < neighbors[b].Distance
		}
		return neighbors[a].ID < neighbors[b].ID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// dot computes the dot product of two equal-length vectors.
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
