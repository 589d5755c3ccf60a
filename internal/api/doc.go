// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

// Package api is the HTTP boundary of ShelfScout: a chi router, the
// standardized JSON response envelope, and thin handlers that translate
// between HTTP and the core packages.
//
// Handlers hold no business logic. They parse and validate input, call
// into catalog/history/recommend/location, and map domain errors to
// envelope error codes. Every response carries the request ID injected
// by the middleware stack.
package api
