package cache

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"itinerant/internal/graph"
)

// highwaysSnapshot is the gob-friendly envelope for the projected highway
// directory, following the atomic-write-then-rename discipline of the
// pack's routestore snapshot format.
type highwaysSnapshot struct {
	Version int
	Ways    map[int64][]uint32
}

const highwaysVersion = 1

// WriteHighways persists the post-C4 highway-to-node-id projections.
func WriteHighways(path string, highways map[int64]*graph.HighwayProjection) error {
	data := highwaysSnapshot{Version: highwaysVersion, Ways: make(map[int64][]uint32, len(highways))}
	for id, h := range highways {
		data.Ways[id] = h.Nodes
	}

	tmp, err := os.CreateTemp(".", ".highways-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := gob.NewEncoder(tmp).Encode(data); err != nil {
		return fmt.Errorf("encode highways: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	success = true
	return nil
}

// ReadHighways loads the projected highway directory. A missing file is
// not an error: the caller falls back to re-running C4 (spec.md §4.2).
func ReadHighways(path string) (map[int64]*graph.HighwayProjection, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	var data highwaysSnapshot
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode highways: %w", err)
	}
	if data.Version != highwaysVersion {
		return nil, fmt.Errorf("unsupported highways version %d", data.Version)
	}

	out := make(map[int64]*graph.HighwayProjection, len(data.Ways))
	for id, nodes := range data.Ways {
		out[id] = &graph.HighwayProjection{WayID: id, Nodes: nodes}
	}
	return out, nil
}
