package projector

import (
	"testing"

	"itinerant/internal/feed"
	"itinerant/internal/geoindex"
	"itinerant/internal/graph"
)

func testIndex() *geoindex.Index {
	g := &graph.Graph{
		NumNodes: 3,
		NodeLon:  []float64{2.10, 2.20, 2.30},
		NodeLat:  []float64{41.30, 41.30, 41.30},
	}
	return geoindex.Build(g)
}

func TestProjectBasic(t *testing.T) {
	highways := map[int64]*feed.Highway{
		1: {WayID: 1, Description: "Gran Via", Lons: []float64{2.10, 2.20, 2.30}, Lats: []float64{41.30, 41.30, 41.30}},
	}
	projections := Project(testIndex(), highways)
	p, ok := projections[1]
	if !ok {
		t.Fatal("missing projection for way 1")
	}
	want := []uint32{0, 1, 2}
	if len(p.Nodes) != len(want) {
		t.Fatalf("Nodes = %v, want %v", p.Nodes, want)
	}
	for i, n := range want {
		if p.Nodes[i] != n {
			t.Errorf("Nodes[%d] = %d, want %d", i, p.Nodes[i], n)
		}
	}
}

func TestProjectDropsDegenerateHighway(t *testing.T) {
	highways := map[int64]*feed.Highway{
		2: {WayID: 2, Lons: []float64{2.10}, Lats: []float64{41.30}},
	}
	projections := Project(testIndex(), highways)
	if _, ok := projections[2]; ok {
		t.Error("single-point highway should not produce a projection")
	}
}
