// Package geoindex implements C3: nearest-node lookup from (lon, lat) into
// the graph, and free-text place resolution via an external geocoder
// (spec.md §4.3).
package geoindex

import (
	"math"

	"github.com/tidwall/rtree"

	"itinerant/internal/geo"
	"itinerant/internal/graph"
)

// Index is a spatial index over a graph's node coordinates, giving the
// teacher's unwired github.com/tidwall/rtree dependency its first caller.
type Index struct {
	tree *rtree.RTree[uint32]
	g    *graph.Graph
}

// Build bulk-loads every node of g into an R-tree.
func Build(g *graph.Graph) *Index {
	tree := &rtree.RTree[uint32]{}
	for i := uint32(0); i < g.NumNodes; i++ {
		pt := [2]float64{g.NodeLon[i], g.NodeLat[i]}
		tree.Insert(pt, pt, i)
	}
	return &Index{tree: tree, g: g}
}

// startRadius is the initial search box half-width in decimal degrees,
// ~1.1 km at the equator — large enough that most queries resolve on the
// first pass.
const startRadius = 0.01

// NearestNode returns the id of the node nearest (lon, lat) under planar
// Euclidean distance, ties broken by lower id (spec.md §4.3). Searches an
// expanding box around the query point and only returns once the box is
// provably wide enough that no closer node could lie outside it.
func (idx *Index) NearestNode(lon, lat float64) (uint32, bool) {
	if idx.g.NumNodes == 0 {
		return 0, false
	}

	radius := startRadius
	var best uint32
	bestDist := math.Inf(1)
	found := false

	for attempt := 0; attempt < 20; attempt++ {
		min := [2]float64{lon - radius, lat - radius}
		max := [2]float64{lon + radius, lat + radius}
		idx.tree.Search(min, max, func(_, _ [2]float64, nodeIdx uint32) bool {
			d := geo.PlanarDist2(lon, lat, idx.g.NodeLon[nodeIdx], idx.g.NodeLat[nodeIdx])
			if d < bestDist || (d == bestDist && nodeIdx < best) {
				bestDist, best, found = d, nodeIdx, true
			}
			return true
		})
		if found && math.Sqrt(bestDist) <= radius {
			return best, true
		}
		radius *= 4
	}
	return best, found
}
