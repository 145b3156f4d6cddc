package graph

import (
	"math"
	"testing"
)

func sampleGraph() *Graph {
	return &Graph{
		NumNodes:       2,
		NumEdges:       1,
		FirstOut:       []uint32{0, 1, 1},
		Head:           []uint32{1},
		NodeLon:        []float64{0, 1},
		NodeLat:        []float64{0, 1},
		Length:         []float64{100},
		MaxSpeed:       []float64{30},
		Congestion:     []uint8{1},
		CongestionInfo: []bool{true},
		ITime:          []float64{25},
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := sampleGraph()
	clone := g.Clone()
	clone.Congestion[0] = 5
	if g.Congestion[0] == 5 {
		t.Error("mutating clone affected original")
	}
	if g.Equal(clone) {
		t.Error("clone with different Congestion should not be Equal before fixing it back")
	}
}

func TestEqualHandlesInfinity(t *testing.T) {
	a := sampleGraph()
	b := sampleGraph()
	a.ITime[0] = math.Inf(1)
	b.ITime[0] = math.Inf(1)
	if !a.Equal(b) {
		t.Error("two graphs both with +Inf itime should be Equal")
	}
	b.ITime[0] = 99
	if a.Equal(b) {
		t.Error("graphs with differing itime should not be Equal")
	}
}

func TestEdgesFrom(t *testing.T) {
	g := sampleGraph()
	start, end := g.EdgesFrom(0)
	if start != 0 || end != 1 {
		t.Errorf("EdgesFrom(0) = (%d, %d), want (0, 1)", start, end)
	}
	start, end = g.EdgesFrom(1)
	if start != 1 || end != 1 {
		t.Errorf("EdgesFrom(1) = (%d, %d), want (1, 1)", start, end)
	}
}
