// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"sync"

	"github.com/pdiddy/place-finder/pkg/types"
)

// MemoryStore is the in-process cache backend. State starts empty and is
// discarded on Close; there is nothing to persist.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]types.CacheEntry
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]types.CacheEntry)}
}

// Get returns the entry for the fingerprint, or nil when absent.
func (s *MemoryStore) Get(_ context.Context, fingerprint string) (*types.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[fingerprint]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Set stores or replaces the entry for its fingerprint.
func (s *MemoryStore) Set(_ context.Context, entry types.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Fingerprint] = entry
	return nil
}

// Delete removes the entry for the fingerprint.
func (s *MemoryStore) Delete(_ context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, fingerprint)
	return nil
}

// Purge removes every entry.
func (s *MemoryStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]types.CacheEntry)
	return nil
}

// Close is a no-op for the in-process store.
func (s *MemoryStore) Close() error { return nil }
