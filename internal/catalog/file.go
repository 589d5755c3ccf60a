// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package catalog

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// File is the on-disk catalog document.
//
// Example:
//
//	{
//	  "products": [
//	    {"id": 1, "name": "Football", "category": "Football", "aisle": "A1", "shelf": 1}
//	  ],
//	  "purchase_history": {
//	    "user_1": [1, 2, 3]
//	  }
//	}
//
// The purchase_history block is optional seed data for demos and tests;
// live purchases arrive over the API.
type File struct {
	Products        []Product        `json:"products"`
	PurchaseHistory map[string][]int `json:"purchase_history,omitempty"`
}

// ParseFile reads and decodes a catalog file.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	var doc File
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog file %s: %w", path, err)
	}
	return &doc, nil
}

// LoadFile parses a catalog file and loads its products into the store.
// Returns the parsed document so the caller can seed purchase history.
// If parsing or loading fails the previous snapshot stays published.
func (s *Store) LoadFile(ctx context.Context, path string) (*File, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx, doc.Products); err != nil {
		return nil, err
	}
	return doc, nil
}
