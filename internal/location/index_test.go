// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

package location

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/shelfscout/shelfscout/internal/catalog"
)

func testStore(t *testing.T, products []catalog.Product) *catalog.Store {
	t.Helper()

	store := catalog.NewStore(catalog.OneHotPolicy{}, zerolog.Nop())
	if err := store.Load(context.Background(), products); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return store
}

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Football", Category: "Football", Aisle: "A1", Shelf: 1},
		{ID: 2, Name: "Basketball", Category: "Basketball", Aisle: "A2", Shelf: 2},
		{ID: 3, Name: "Baseball Bat", Category: "Baseball", Aisle: "B1", Shelf: 3},
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testStore(t, sampleProducts()))

	tests := []struct {
		name    string
		query   string
		want    Location
		wantErr bool
	}{
		{"exact name", "Football", Location{Aisle: "A1", Shelf: 1}, false},
		{"lowercase", "football", Location{Aisle: "A1", Shelf: 1}, false},
		{"uppercase", "FOOTBALL", Location{Aisle: "A1", Shelf: 1}, false},
		{"surrounding whitespace", "  Baseball Bat  ", Location{Aisle: "B1", Shelf: 3}, false},
		{"mixed case multiword", "baseball BAT", Location{Aisle: "B1", Shelf: 3}, false},
		{"absent product", "Cricket Bat", Location{}, true},
		{"empty name", "", Location{}, true},
		{"blank name", "   ", Location{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := idx.Locate(tt.query)
			if tt.wantErr {
				if !errors.Is(err, ErrLocationNotFound) {
					t.Fatalf("Locate(%q) error = %v, want ErrLocationNotFound", tt.query, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Locate(%q) error = %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("Locate(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestLocateEmptyCatalog(t *testing.T) {
	t.Parallel()

	idx := NewIndex(testStore(t, nil))
	if _, err := idx.Locate("Football"); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("Locate on empty catalog = %v, want ErrLocationNotFound", err)
	}
}

func TestLocateDuplicateNamesFirstWins(t *testing.T) {
	t.Parallel()

	products := []catalog.Product{
		{ID: 1, Name: "Football", Aisle: "A1", Shelf: 1},
		{ID: 2, Name: "football", Aisle: "Z9", Shelf: 9},
	}
	idx := NewIndex(testStore(t, products))

	got, err := idx.Locate("Football")
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	want := Location{Aisle: "A1", Shelf: 1}
	if got != want {
		t.Errorf("Locate() = %+v, want first catalog match %+v", got, want)
	}
}

func TestLocateTracksSnapshotChanges(t *testing.T) {
	t.Parallel()

	store := testStore(t, sampleProducts())
	idx := NewIndex(store)

	if _, err := idx.Locate("Football"); err != nil {
		t.Fatalf("Locate() error = %v", err)
	}

	// Move the football and reload.
	moved := sampleProducts()
	moved[0].Aisle = "E5"
	moved[0].Shelf = 7
	if err := store.Load(context.Background(), moved); err != nil {
		t.Fatalf("reload error = %v", err)
	}

	got, err := idx.Locate("Football")
	if err != nil {
		t.Fatalf("Locate() after reload error = %v", err)
	}
	want := Location{Aisle: "E5", Shelf: 7}
	if got != want {
		t.Errorf("Locate() after reload = %+v, want %+v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Football", "football"},
		{"  FOOTBALL  ", "football"},
		{"Baseball Bat", "baseball bat"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
