// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

// Package recommend implements the recommendation engine: a cosine
// distance k-nearest-neighbor index over the catalog's feature vectors,
// queried once per product in the user's purchase history.
//
// Determinism is a contract, not an accident. Neighbor ties are broken
// by ascending product ID, history is walked in purchase order, and the
// index is rebuilt only when the catalog snapshot version changes, so
// identical inputs always produce identical output.
package recommend
