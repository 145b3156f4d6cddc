package cost

import (
	"math"
	"testing"

	"itinerant/internal/graph"
)

func TestBuildFluidCongestion(t *testing.T) {
	g := &graph.Graph{
		Length:     []float64{300},
		MaxSpeed:   []float64{30},
		Congestion: []uint8{graph.CongestionFluid},
		ITime:      make([]float64, 1),
	}
	Build(g)
	want := 300.0/30.0 + turnPenaltySeconds
	if g.ITime[0] != want {
		t.Errorf("ITime = %f, want %f", g.ITime[0], want)
	}
}

func TestBuildNoSpeedDefaultsTo30(t *testing.T) {
	g := &graph.Graph{
		Length:     []float64{60},
		MaxSpeed:   []float64{graph.NoSpeed},
		Congestion: []uint8{graph.CongestionFluid},
		ITime:      make([]float64, 1),
	}
	Build(g)
	want := 60.0/defaultSpeedKmh + turnPenaltySeconds
	if g.ITime[0] != want {
		t.Errorf("ITime = %f, want %f", g.ITime[0], want)
	}
}

func TestBuildBlockedCongestionIsInfinite(t *testing.T) {
	g := &graph.Graph{
		Length:     []float64{100},
		MaxSpeed:   []float64{50},
		Congestion: []uint8{graph.CongestionBlocked},
		ITime:      make([]float64, 1),
	}
	Build(g)
	if !math.IsInf(g.ITime[0], 1) {
		t.Errorf("ITime = %f, want +Inf", g.ITime[0])
	}
}

func TestBuildHigherCongestionIncreasesITime(t *testing.T) {
	low := &graph.Graph{Length: []float64{300}, MaxSpeed: []float64{30}, Congestion: []uint8{2}, ITime: make([]float64, 1)}
	high := &graph.Graph{Length: []float64{300}, MaxSpeed: []float64{30}, Congestion: []uint8{5}, ITime: make([]float64, 1)}
	Build(low)
	Build(high)
	if high.ITime[0] <= low.ITime[0] {
		t.Errorf("ITime at congestion 5 (%f) <= congestion 2 (%f)", high.ITime[0], low.ITime[0])
	}
}
