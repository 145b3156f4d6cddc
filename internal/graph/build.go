package graph

import "sort"

// RawNode is a graph vertex as produced by the feed client, keyed by the
// upstream node id (an OSM node id in the reference deployment).
type RawNode struct {
	ID  int64
	Lon float64
	Lat float64
}

// RawEdge is a directed edge as produced by the feed client, before CSR
// compaction. Weight fields mirror spec.md §3's Edge: length in meters and
// an optional maxspeed in km/h (NoSpeed if absent).
type RawEdge struct {
	From, To int64
	Length   float64
	MaxSpeed float64 // km/h, or NoSpeed
}

// Build compacts raw nodes/edges into a CSR Graph. Parallel edges between
// the same ordered pair collapse to the shortest-by-length one (spec.md
// §4.1): "the shortest-by-length one wins". Loops are kept but the router
// will never select them.
func Build(nodes []RawNode, edges []RawEdge) *Graph {
	if len(nodes) == 0 {
		return &Graph{}
	}

	idToIdx := make(map[int64]uint32, len(nodes))
	nodeLon := make([]float64, len(nodes))
	nodeLat := make([]float64, len(nodes))
	for i, n := range nodes {
		idToIdx[n.ID] = uint32(i)
		nodeLon[i] = n.Lon
		nodeLat[i] = n.Lat
	}
	numNodes := uint32(len(nodes))

	// Collapse parallel edges: key by (from,to), keep the shortest.
	type key struct{ from, to uint32 }
	best := make(map[key]RawEdge, len(edges))
	order := make([]key, 0, len(edges))
	for _, e := range edges {
		fromIdx, ok1 := idToIdx[e.From]
		toIdx, ok2 := idToIdx[e.To]
		if !ok1 || !ok2 {
			continue // endpoint not in the node set; skip
		}
		k := key{fromIdx, toIdx}
		if cur, exists := best[k]; !exists || e.Length < cur.Length {
			if !exists {
				order = append(order, k)
			}
			best[k] = e
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].from != order[j].from {
			return order[i].from < order[j].from
		}
		return order[i].to < order[j].to
	})

	numEdges := uint32(len(order))
	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, numEdges)
	length := make([]float64, numEdges)
	maxSpeed := make([]float64, numEdges)

	for i, k := range order {
		e := best[k]
		head[i] = k.to
		length[i] = e.Length
		maxSpeed[i] = e.MaxSpeed
		firstOut[k.from+1]++
	}
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	g := &Graph{
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
	return g
}
