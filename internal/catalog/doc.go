// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

// Package catalog owns the product catalog: the versioned immutable
// snapshot, the feature-extraction policies that derive per-product
// vectors, the JSON catalog file loader, and the fsnotify watcher that
// reloads the file on change.
//
// The snapshot discipline is the load-bearing design decision. All
// reads (product lookup, iteration, vectors) go through an immutable
// Snapshot published with an atomic pointer swap, so queries are
// lock-free and never observe a half-loaded catalog. Derived read
// models elsewhere (the location index, the nearest-neighbor index)
// cache by Snapshot.Version and rebuild when it changes.
package catalog
