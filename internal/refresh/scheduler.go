// Package refresh implements C8: the background cycle that re-fetches the
// congestion feed, re-maps and re-imputes congestion, and rebuilds itime,
// publishing the result as a new snapshot (spec.md §5).
package refresh

import (
	"context"
	"log"
	"time"

	"itinerant/internal/congestion"
	"itinerant/internal/cost"
	"itinerant/internal/feed"
	"itinerant/internal/graph"
	"itinerant/internal/snapshotstore"
)

// Interval is fixed at 300 seconds, matching the original's
// threading.Timer(300, ...) cadence.
const Interval = 300 * time.Second

// Scheduler owns the single background refresh goroutine. Unlike the
// original's self-rescheduling threading.Timer, it runs a plain ticker
// loop: a recursive timer risks cycles stacking up if a single refresh
// ever runs long, where a ticker just skips the missed tick.
type Scheduler struct {
	store          *snapshotstore.Store
	congestionFeed string
}

// New builds a Scheduler that fetches the congestion feed from feedURL.
func New(store *snapshotstore.Store, feedURL string) *Scheduler {
	return &Scheduler{store: store, congestionFeed: feedURL}
}

// Run blocks, refreshing every Interval until ctx is canceled. Overlapping
// cycles never run concurrently: the loop only starts the next fetch after
// the previous cycle has published (spec.md §5).
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	prev := s.store.Get()
	if prev == nil {
		return
	}

	measurements, err := feed.FetchCongestionFeed(ctx, s.congestionFeed)
	if err != nil {
		log.Printf("refresh: congestion feed fetch canceled: %v", err)
		return
	}

	changed := false
	for wayID, m := range measurements {
		if prev.LastCongestion[wayID] != m.Actual {
			changed = true
			break
		}
	}
	if !changed {
		return
	}

	next := prev.Graph.Clone()
	congestion.ResetUnmeasured(next)
	congestion.Map(next, prev.Highways, measurements)
	congestion.Impute(next)
	cost.Build(next)

	lastCongestion := make(map[int64]uint8, len(measurements))
	for wayID, m := range measurements {
		lastCongestion[wayID] = m.Actual
	}

	s.store.Publish(&graph.Snapshot{
		Graph:          next,
		Highways:       prev.Highways,
		LastCongestion: lastCongestion,
	})
	log.Printf("refresh: published new snapshot (%d measurements)", len(measurements))
}
