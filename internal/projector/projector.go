// Package projector implements C4: projecting each municipal highway's
// polyline onto the road graph as a sequence of nearest node ids, run once
// per cache generation (spec.md §4.4).
package projector

import (
	"itinerant/internal/feed"
	"itinerant/internal/geoindex"
	"itinerant/internal/graph"
)

// Project maps every highway's coordinate list to its nearest graph nodes.
// Highways whose polyline has fewer than two points, or whose every point
// falls outside the graph, are dropped rather than causing an error: a
// municipality's highway directory routinely outlives the graph extract it
// is projected onto.
func Project(idx *geoindex.Index, highways map[int64]*feed.Highway) map[int64]*graph.HighwayProjection {
	projections := make(map[int64]*graph.HighwayProjection, len(highways))
	for wayID, h := range highways {
		if len(h.Lons) < 2 {
			continue
		}
		nodes := make([]uint32, 0, len(h.Lons))
		for i := range h.Lons {
			node, ok := idx.NearestNode(h.Lons[i], h.Lats[i])
			if !ok {
				continue
			}
			nodes = append(nodes, node)
		}
		if len(nodes) < 2 {
			continue
		}
		projections[wayID] = &graph.HighwayProjection{WayID: wayID, Nodes: nodes}
	}
	return projections
}
