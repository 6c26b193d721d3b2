package store

import (
	"context"
	"sort"
	"sync"

	"github.com/bailus/pinpoint/pkg/errors"
)

// MemoryStore keeps overlays in process memory. It is safe for concurrent
// use and is the default backend for the CLI and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	overlays map[string]Overlay
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{overlays: map[string]Overlay{}}
}

// Put inserts or replaces an overlay.
func (s *MemoryStore) Put(ctx context.Context, o Overlay) error {
	if err := o.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlays[o.ID] = o
	return nil
}

// Get returns the overlay with the given id.
func (s *MemoryStore) Get(ctx context.Context, id string) (Overlay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overlays[id]
	if !ok {
		return Overlay{}, errors.New(errors.ErrCodeOverlayNotFound, "overlay %s not found", id)
	}
	return o, nil
}

// Delete removes an overlay.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.overlays[id]; !ok {
		return errors.New(errors.ErrCodeOverlayNotFound, "overlay %s not found", id)
	}
	delete(s.overlays, id)
	return nil
}

// List returns all overlays sorted by id.
func (s *MemoryStore) List(ctx context.Context) ([]Overlay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Overlay, 0, len(s.overlays))
	for _, o := range s.overlays {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
