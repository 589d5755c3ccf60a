// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package catalog

import (
	"fmt"
	"strings"
)

// FeaturePolicy derives per-product feature vectors for a product list.
//
// Implementations must be deterministic and return one vector per
// product, index-aligned with the input and all of equal length. The
// similarity semantics of the recommendation engine are entirely
// policy-independent: swapping the policy changes what "similar" means,
// not how neighbors are ranked.
type FeaturePolicy interface {
	// Name identifies the policy in config and logs.
	Name() string

	// Vectors returns one feature vector per product.
	Vectors(products []Product) ([][]float64, error)
}

// PolicyByName returns the feature policy for a config name.
// An empty name selects the default one-hot policy.
func PolicyByName(name string) (FeaturePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "onehot":
		return OneHotPolicy{}, nil
	case "attributes":
		return AttributePolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown feature policy %q", name)
	}
}

// OneHotPolicy assigns each product its own dimension: vector i is 1 at
// position i and 0 elsewhere. It encodes identity only, so every
// product is equidistant from every other and neighbor ranking falls
// through to the ID tie-break. Useful as a baseline and for exercising
// the engine contract without attribute data.
type OneHotPolicy struct{}

// Name implements FeaturePolicy.
func (OneHotPolicy) Name() string { return "onehot" }

// Vectors implements FeaturePolicy.
func (OneHotPolicy) Vectors(products []Product) ([][]float64, error) {
	n := len(products)
	vectors := make([][]float64, n)
	for i := range products {
		v := make([]float64, n)
		v[i] = 1.0
		vectors[i] = v
	}
	return vectors, nil
}

// attribute weights: a shared category is a stronger similarity signal
// than physical shelving proximity.
const (
	categoryWeight = 1.0
	zoneWeight     = 0.5
)

// AttributePolicy derives dimensions from shared product attributes:
// one dimension per distinct category and one per distinct aisle zone
// (the leading letter of the aisle label). Products sharing a category
// or shelved in the same zone get genuinely close vectors, so cosine
// neighbors are semantically meaningful.
type AttributePolicy struct{}

// Name implements FeaturePolicy.
func (AttributePolicy) Name() string { return "attributes" }

// Vectors implements FeaturePolicy.
// Dimensions are assigned in first-appearance order, which keeps the
// output deterministic for a given product list.
func (AttributePolicy) Vectors(products []Product) ([][]float64, error) {
	categoryDim := make(map[string]int)
	zoneDim := make(map[string]int)
	for _, p := range products {
		if c := normalizeAttr(p.Category); c != "" {
			if _, ok := categoryDim[c]; !ok {
				categoryDim[c] = len(categoryDim)
			}
		}
		if z := aisleZone(p.Aisle); z != "" {
			if _, ok := zoneDim[z]; !ok {
				zoneDim[z] = len(zoneDim)
			}
		}
	}

	width := len(categoryDim) + len(zoneDim)
	vectors := make([][]float64, len(products))
	for i, p := range products {
		v := make([]float64, width)
		if c := normalizeAttr(p.Category); c != "" {
			v[categoryDim[c]] = categoryWeight
		}
		if z := aisleZone(p.Aisle); z != "" {
			v[len(categoryDim)+zoneDim[z]] = zoneWeight
		}
		vectors[i] = v
	}
	return vectors, nil
}

// normalizeAttr folds an attribute value for dimension matching.
func normalizeAttr(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// aisleZone extracts the zone letter from an aisle label ("A1" -> "a").
func aisleZone(aisle string) string {
	aisle = strings.TrimSpace(aisle)
	if aisle == "" {
		return ""
	}
	return strings.ToLower(aisle[:1])
}
