// ShelfScout - Sporting Goods Recommendations and In-Store Product Location
// Copyright 2026 ShelfScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shelfscout/shelfscout

// Package history stores per-user purchase history.
//
// The store is an in-memory, read-mostly map from user ID to the
// ordered sequence of purchased product IDs. Duplicates are allowed
// and insertion order is preserved: the recommendation engine walks
// the sequence in purchase order.
package history

import (
	"sort"
	"sync"

	"github.com/shelfscout/shelfscout/internal/metrics"
)

// Store holds purchase history for all users.
type Store struct {
	mu     sync.RWMutex
	byUser map[string][]int
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{
		byUser: make(map[string][]int),
	}
}

// Record appends purchase events for a user. Repeat purchases of the
// same product are kept as separate events.
func (s *Store) Record(userID string, productIDs ...int) {
	if len(productIDs) == 0 {
		return
	}

	s.mu.Lock()
	s.byUser[userID] = append(s.byUser[userID], productIDs...)
	s.mu.Unlock()

	metrics.RecordPurchases(len(productIDs))
}

// Get returns a copy of the user's purchase sequence in insertion
// order. Unknown users get a nil slice.
func (s *Store) Get(userID string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.byUser[userID]
	if !ok {
		return nil
	}
	out := make([]int, len(seq))
	copy(out, seq)
	return out
}

// Users returns all user IDs with recorded history, sorted.
func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]string, 0, len(s.byUser))
	for u := range s.byUser {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// Seed replaces the store contents with the given history map.
// Used to load the purchase_history block of a catalog file.
func (s *Store) Seed(histories map[string][]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byUser = make(map[string][]int, len(histories))
	for user, seq := range histories {
		owned := make([]int, len(seq))
		copy(owned, seq)
		s.byUser[user] = owned
	}
}
