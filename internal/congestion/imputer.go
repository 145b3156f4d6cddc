package congestion

import "itinerant/internal/graph"

// imputationRounds is fixed at 6, per the original's relaxation loop; the
// spec does not make this configurable (spec.md §4.6, Open Questions).
const imputationRounds = 6

// Impute fills in congestion for every edge still at "no data" by
// averaging the incident edges of its endpoints that already carry a
// nonzero level (measured, or imputed earlier in the pass), run for exactly
// imputationRounds over ascending node-id order so the result is
// deterministic regardless of map iteration order (spec.md §4.6, P2/P3).
// Any edge still unset after all rounds defaults to CongestionFluid.
func Impute(g *graph.Graph) {
	inEdges := buildInEdges(g)

	for round := 0; round < imputationRounds; round++ {
		for node := uint32(0); node < g.NumNodes; node++ {
			var sum, count int
			for _, e := range inEdges[node] {
				if g.Congestion[e] > 0 {
					sum += int(g.Congestion[e])
					count++
				}
			}
			start, end := g.EdgesFrom(node)
			for e := start; e < end; e++ {
				if g.Congestion[e] > 0 {
					sum += int(g.Congestion[e])
					count++
				}
			}
			if count == 0 {
				continue
			}
			avg := sum / count

			for _, e := range inEdges[node] {
				if g.Congestion[e] == 0 {
					g.Congestion[e] = uint8(max(1, avg-1))
				}
			}
			for e := start; e < end; e++ {
				if g.Congestion[e] == 0 {
					g.Congestion[e] = uint8(max(1, avg))
				}
			}
		}
	}

	for e := range g.Congestion {
		if g.Congestion[e] == 0 {
			g.Congestion[e] = graph.CongestionFluid
		}
	}
}

// buildInEdges returns, per node, the edge indices whose Head is that
// node. The CSR layout only makes outgoing edges cheap to enumerate, so
// this is built once per Impute call and reused across all rounds.
func buildInEdges(g *graph.Graph) [][]uint32 {
	inEdges := make([][]uint32, g.NumNodes)
	for e, head := range g.Head {
		inEdges[head] = append(inEdges[head], uint32(e))
	}
	return inEdges
}
