// Package congestion implements C5 (mapping raw measurements onto graph
// edges) and C6 (imputing congestion for unmeasured edges), spec.md §4.5-§4.6.
package congestion

import (
	"itinerant/internal/graph"
	"itinerant/internal/routing"
)

// Map applies every measurement with a positive actual reading to the
// edges along the shortest-by-length path between each consecutive pair of
// nodes in its highway's projection, mirroring the original's
// nx.shortest_path(graph, weight='length') per-segment assignment. A
// highway with no projection, or a segment with no path, is skipped rather
// than treated as an error.
func Map(g *graph.Graph, highways map[int64]*graph.HighwayProjection, measurements map[int64]graph.Measurement) {
	for wayID, m := range measurements {
		if m.Actual == 0 {
			continue
		}
		proj, ok := highways[wayID]
		if !ok {
			continue
		}
		for i := 1; i < len(proj.Nodes); i++ {
			path := routing.ShortestPath(g, proj.Nodes[i-1], proj.Nodes[i], routing.LengthWeight)
			if path == nil {
				continue
			}
			for j := 1; j < len(path); j++ {
				e, ok := findEdge(g, path[j-1], path[j])
				if !ok {
					continue
				}
				g.Congestion[e] = m.Actual
				g.CongestionInfo[e] = m.Actual > 0
			}
		}
	}
}

// ResetUnmeasured clears every edge's congestion back to "no data" unless
// it was set directly from a measurement, so a refresh cycle's Impute pass
// starts clean instead of compounding the previous cycle's estimates
// (spec.md §5, mirroring the original's per-refresh reset of
// congestionInfo == false edges).
func ResetUnmeasured(g *graph.Graph) {
	for e := range g.Congestion {
		if !g.CongestionInfo[e] {
			g.Congestion[e] = graph.CongestionNoData
		}
	}
}

// findEdge returns the edge index from u to v, if any.
func findEdge(g *graph.Graph, u, v uint32) (uint32, bool) {
	start, end := g.EdgesFrom(u)
	for e := start; e < end; e++ {
		if g.Head[e] == v {
			return e, true
		}
	}
	return 0, false
}
