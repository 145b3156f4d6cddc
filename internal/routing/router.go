package routing

import (
	"context"
	"fmt"

	"itinerant/internal/geoindex"
	"itinerant/internal/graph"
	"itinerant/internal/snapshotstore"
)

// Router answers shortest-itime-path queries against whatever snapshot is
// currently published. The spatial index is built once, since node
// coordinates never change after the graph is built — only per-edge
// congestion and itime are replaced on each refresh cycle (spec.md §5).
type Router struct {
	store    *snapshotstore.Store
	index    *geoindex.Index
	geocoder geoindex.Geocoder
}

// New builds a Router reading from store, which must already hold a
// published snapshot. geocoder may be nil, in which case free-text place
// names never resolve (spec.md §9) — only "lon lat" pairs do.
func New(store *snapshotstore.Store, geocoder geoindex.Geocoder) *Router {
	return &Router{
		store:    store,
		index:    geoindex.Build(store.Get().Graph),
		geocoder: geocoder,
	}
}

// ResolveLocation turns free text into a Location (spec.md §4.3).
func (r *Router) ResolveLocation(ctx context.Context, text string) (graph.Location, bool) {
	lon, lat, ok := geoindex.ResolvePlace(ctx, text, r.geocoder)
	if !ok {
		return graph.Location{}, false
	}
	return graph.Location{Lon: lon, Lat: lat}, true
}

// Route is a found path plus its total estimated travel time.
type Route struct {
	Path              []graph.Location
	TotalITimeSeconds float64
}

// ShortestPath finds the lowest-itime route between src and dst (spec.md
// §4.8, P5, P7). Returns an error only when either endpoint has no nearby
// graph node; an unreachable destination is reported via a nil, nil return
// rather than an error (spec.md §7: "no route" is a routine outcome, not a
// fault).
func (r *Router) ShortestPath(src, dst graph.Location) (*Route, error) {
	g := r.store.Get().Graph
	srcNode, ok := r.index.NearestNode(src.Lon, src.Lat)
	if !ok {
		return nil, fmt.Errorf("no graph node near source location")
	}
	dstNode, ok := r.index.NearestNode(dst.Lon, dst.Lat)
	if !ok {
		return nil, fmt.Errorf("no graph node near destination location")
	}

	path := ShortestPath(g, srcNode, dstNode, ITimeWeight)
	if path == nil {
		return nil, nil
	}

	locations := make([]graph.Location, len(path))
	var total float64
	for i, node := range path {
		locations[i] = graph.Location{Lon: g.NodeLon[node], Lat: g.NodeLat[node]}
		if i > 0 {
			e, ok := findEdge(g, path[i-1], path[i])
			if ok {
				total += g.ITime[e]
			}
		}
	}
	return &Route{Path: locations, TotalITimeSeconds: total}, nil
}

func findEdge(g *graph.Graph, u, v uint32) (uint32, bool) {
	start, end := g.EdgesFrom(u)
	for e := start; e < end; e++ {
		if g.Head[e] == v {
			return e, true
		}
	}
	return 0, false
}
