// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package recommend

import "errors"

var (
	// ErrInvalidHistoryReference is returned when a user's purchase
	// history references a product ID absent from the current catalog
	// snapshot. The whole call fails rather than silently skipping the
	// entry, so corrupt history surfaces instead of hiding.
	ErrInvalidHistoryReference = errors.New("purchase history references unknown product")

	// ErrDegenerateVector is returned when a product's feature vector
	// has zero magnitude. Cosine distance is undefined for such
	// vectors, so the nearest-neighbor index refuses to build.
	ErrDegenerateVector = errors.New("zero-magnitude feature vector")
)
