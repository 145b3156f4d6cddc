package routing

import (
	"math"

	"itinerant/internal/graph"
)

// noNode marks "no predecessor" in the predecessor array.
const noNode = math.MaxUint32

// WeightFunc returns the traversal cost of the edge at index edgeIdx in
// g's CSR edge arrays. An edge with weight +Inf is treated as impassable
// (spec.md §4.7: an edge whose congestion is maximal carries itime = +Inf).
type WeightFunc func(g *graph.Graph, edgeIdx uint32) float64

// LengthWeight weighs every edge by its physical length, used by the
// congestion mapper (C5) to find the shortest-by-distance path between two
// highway projection nodes, mirroring the original's
// nx.shortest_path(graph, weight='length').
func LengthWeight(g *graph.Graph, edgeIdx uint32) float64 {
	return g.Length[edgeIdx]
}

// ITimeWeight weighs every edge by its current estimated travel time,
// used by the query router (C9).
func ITimeWeight(g *graph.Graph, edgeIdx uint32) float64 {
	return g.ITime[edgeIdx]
}

// ShortestPath runs single-source Dijkstra from src, terminating as soon as
// dst is settled, and returns the sequence of node ids from src to dst
// inclusive. Returns nil if dst is unreachable from src. A plain
// single-direction search, not the teacher's bidirectional
// Contraction-Hierarchies search: itime changes every refresh cycle
// (spec.md §5), and CH's hierarchy invalidates whenever the weights it was
// built on change, so a static preprocessed hierarchy cannot track it
// cheaply.
func ShortestPath(g *graph.Graph, src, dst uint32, weight WeightFunc) []uint32 {
	if src == dst {
		return []uint32{src}
	}
	if src >= g.NumNodes || dst >= g.NumNodes {
		return nil
	}

	dist := make([]float64, g.NumNodes)
	pred := make([]uint32, g.NumNodes)
	visited := make([]bool, g.NumNodes)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = noNode
	}
	dist[src] = 0

	var pq MinHeap
	pq.Push(src, 0)

	for pq.Len() > 0 {
		top := pq.Pop()
		u := top.Node
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == dst {
			break
		}

		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			if visited[v] {
				continue
			}
			w := weight(g, e)
			if math.IsInf(w, 1) {
				continue
			}
			nd := dist[u] + w
			if nd < dist[v] {
				dist[v] = nd
				pred[v] = u
				pq.Push(v, nd)
			}
		}
	}

	if math.IsInf(dist[dst], 1) {
		return nil
	}

	var path []uint32
	for n := dst; n != noNode; n = pred[n] {
		path = append(path, n)
		if n == src {
			break
		}
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
