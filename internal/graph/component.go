package graph

// unionFind is a disjoint-set structure with path halving and union by rank,
// adapted from the teacher's pkg/graph/component.go.
type unionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

func newUnionFind(n uint32) *unionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range parent {
		parent[i] = uint32(i)
		size[i] = 1
	}
	return &unionFind{parent: parent, rank: make([]byte, n), size: size}
}

func (uf *unionFind) find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y uint32) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
}

// LargestComponent returns the node indices of the largest weakly connected
// component, treating the directed graph as undirected. Overpass extracts
// routinely contain disconnected service-road slivers; ingestion filters
// down to the main component before highway projection (C4) so a highway
// polyline never snaps onto an island no query can reach.
func LargestComponent(g *Graph) []uint32 {
	if g.NumNodes == 0 {
		return nil
	}
	uf := newUnionFind(g.NumNodes)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			uf.union(u, g.Head[e])
		}
	}

	bestRoot, bestSize := uint32(0), uint32(0)
	for i := uint32(0); i < g.NumNodes; i++ {
		root := uf.find(i)
		if uf.size[root] > bestSize {
			bestRoot, bestSize = root, uf.size[root]
		}
	}

	nodes := make([]uint32, 0, bestSize)
	for i := uint32(0); i < g.NumNodes; i++ {
		if uf.find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// FilterToComponent returns a new graph containing only the given node
// indices and the edges that stay fully within them.
func FilterToComponent(g *Graph, nodes []uint32) *Graph {
	if len(nodes) == 0 {
		return &Graph{}
	}

	oldToNew := make(map[uint32]uint32, len(nodes))
	for newIdx, oldIdx := range nodes {
		oldToNew[oldIdx] = uint32(newIdx)
	}
	numNodes := uint32(len(nodes))

	type edge struct {
		from, to         uint32
		length, maxSpeed float64
	}
	var edges []edge
	for _, oldU := range nodes {
		start, end := g.EdgesFrom(oldU)
		for e := start; e < end; e++ {
			oldV := g.Head[e]
			if newV, ok := oldToNew[oldV]; ok {
				edges = append(edges, edge{oldToNew[oldU], newV, g.Length[e], g.MaxSpeed[e]})
			}
		}
	}

	numEdges := uint32(len(edges))
	firstOut := make([]uint32, numNodes+1)
	for _, e := range edges {
		firstOut[e.from+1]++
	}
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	head := make([]uint32, numEdges)
	length := make([]float64, numEdges)
	maxSpeed := make([]float64, numEdges)
	pos := append([]uint32(nil), firstOut[:numNodes]...)
	for _, e := range edges {
		idx := pos[e.from]
		head[idx] = e.to
		length[idx] = e.length
		maxSpeed[idx] = e.maxSpeed
		pos[e.from]++
	}

	nodeLon := make([]float64, numNodes)
	nodeLat := make([]float64, numNodes)
	for newIdx, oldIdx := range nodes {
		nodeLon[newIdx] = g.NodeLon[oldIdx]
		nodeLat[newIdx] = g.NodeLat[oldIdx]
	}

	return &Graph{
		NumNodes:       numNodes,
		NumEdges:       numEdges,
		FirstOut:       firstOut,
		Head:           head,
		NodeLon:        nodeLon,
		NodeLat:        nodeLat,
		Length:         length,
		MaxSpeed:       maxSpeed,
		Congestion:     make([]uint8, numEdges),
		CongestionInfo: make([]bool, numEdges),
		ITime:          make([]float64, numEdges),
	}
}
