// Package snapshotstore publishes the graph snapshot the refresh scheduler
// (C8) rebuilds and the HTTP handlers (C9) read concurrently, with no
// locking on the read path (spec.md §5).
package snapshotstore

import (
	"sync/atomic"

	"itinerant/internal/graph"
)

// Store holds the currently published snapshot behind an atomic pointer,
// so concurrent Get calls never block on a Publish in progress and always
// observe one complete snapshot or another, never a half-built one.
type Store struct {
	ptr atomic.Pointer[graph.Snapshot]
}

// Publish atomically replaces the published snapshot.
func (s *Store) Publish(snap *graph.Snapshot) {
	s.ptr.Store(snap)
}

// Get returns the currently published snapshot, or nil before the first
// Publish.
func (s *Store) Get() *graph.Snapshot {
	return s.ptr.Load()
}
