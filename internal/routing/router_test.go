package routing

import (
	"context"
	"testing"

	"itinerant/internal/graph"
	"itinerant/internal/snapshotstore"
)

func testStore() *snapshotstore.Store {
	g := linearGraph()
	g.NodeLon = []float64{2.10, 2.11, 2.12, 2.13}
	g.NodeLat = []float64{41.30, 41.30, 41.30, 41.30}
	var store snapshotstore.Store
	store.Publish(&graph.Snapshot{Graph: g, Highways: map[int64]*graph.HighwayProjection{}})
	return &store
}

func TestRouterShortestPathByITime(t *testing.T) {
	r := New(testStore(), nil)
	route, err := r.ShortestPath(graph.Location{Lon: 2.10, Lat: 41.30}, graph.Location{Lon: 2.13, Lat: 41.30})
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if len(route.Path) != 4 {
		t.Fatalf("path = %v, want 4 locations", route.Path)
	}
	if route.Path[0].Lon != 2.10 || route.Path[3].Lon != 2.13 {
		t.Errorf("path endpoints = %v, %v", route.Path[0], route.Path[3])
	}
	if route.TotalITimeSeconds != 60 {
		t.Errorf("TotalITimeSeconds = %f, want 60", route.TotalITimeSeconds)
	}
}

func TestRouterResolveLocationCoordPair(t *testing.T) {
	r := New(testStore(), nil)
	loc, ok := r.ResolveLocation(context.Background(), "2.12 41.30")
	if !ok {
		t.Fatal("ResolveLocation: ok = false")
	}
	if loc.Lon != 2.12 || loc.Lat != 41.30 {
		t.Errorf("ResolveLocation = %+v, want (2.12, 41.30)", loc)
	}
}
