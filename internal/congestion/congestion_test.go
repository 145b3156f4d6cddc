package congestion

import (
	"testing"

	"itinerant/internal/graph"
)

// squareGraph is 0 -> 1 -> 2 -> 3 -> 0 plus a diagonal 0 -> 2, all length 10
// except the diagonal at 5, so the shortest path 0->2 is the diagonal edge.
func squareGraph() *graph.Graph {
	return &graph.Graph{
		NumNodes:       4,
		NumEdges:       5,
		FirstOut:       []uint32{0, 2, 3, 4, 5, 5},
		Head:           []uint32{1, 2, 2, 3, 0},
		Length:         []float64{10, 5, 10, 10, 10},
		Congestion:     make([]uint8, 5),
		CongestionInfo: make([]bool, 5),
		ITime:          make([]float64, 5),
	}
}

func TestMapAssignsCongestionAlongShortestPath(t *testing.T) {
	g := squareGraph()
	highways := map[int64]*graph.HighwayProjection{
		100: {WayID: 100, Nodes: []uint32{0, 2}},
	}
	measurements := map[int64]graph.Measurement{
		100: {WayID: 100, Actual: 4, Predicted: 4},
	}
	Map(g, highways, measurements)

	// The diagonal edge 0->2 (index 1) is the shortest path, not 0->1->2.
	if g.Congestion[1] != 4 {
		t.Errorf("Congestion[1] = %d, want 4", g.Congestion[1])
	}
	if !g.CongestionInfo[1] {
		t.Error("CongestionInfo[1] = false, want true")
	}
	if g.Congestion[0] != 0 {
		t.Errorf("Congestion[0] = %d, want 0 (not on shortest path)", g.Congestion[0])
	}
}

func TestMapSkipsZeroActual(t *testing.T) {
	g := squareGraph()
	highways := map[int64]*graph.HighwayProjection{100: {WayID: 100, Nodes: []uint32{0, 2}}}
	measurements := map[int64]graph.Measurement{100: {WayID: 100, Actual: 0}}
	Map(g, highways, measurements)
	for i, c := range g.Congestion {
		if c != 0 {
			t.Errorf("Congestion[%d] = %d, want 0", i, c)
		}
	}
}

func TestImputeFillsUnmeasuredEdges(t *testing.T) {
	g := squareGraph()
	g.Congestion[1] = 4
	g.CongestionInfo[1] = true

	Impute(g)

	for i, c := range g.Congestion {
		if c == 0 {
			t.Errorf("Congestion[%d] = 0 after Impute, want nonzero", i)
		}
	}
	// Edge 0 (0->1) never measured, defaults through imputation, never to 0.
	if g.Congestion[0] == 0 {
		t.Error("Congestion[0] left at 0")
	}
}

func TestImputeDefaultsIsolatedEdgesToFluid(t *testing.T) {
	g := &graph.Graph{
		NumNodes:       2,
		NumEdges:       1,
		FirstOut:       []uint32{0, 1, 1},
		Head:           []uint32{1},
		Length:         []float64{10},
		Congestion:     make([]uint8, 1),
		CongestionInfo: make([]bool, 1),
		ITime:          make([]float64, 1),
	}
	Impute(g)
	if g.Congestion[0] != graph.CongestionFluid {
		t.Errorf("Congestion[0] = %d, want %d", g.Congestion[0], graph.CongestionFluid)
	}
}

func TestResetUnmeasuredLeavesMeasuredEdgesAlone(t *testing.T) {
	g := squareGraph()
	g.Congestion[1] = 4
	g.CongestionInfo[1] = true
	g.Congestion[2] = 3 // was imputed previously, not measured

	ResetUnmeasured(g)

	if g.Congestion[1] != 4 {
		t.Errorf("Congestion[1] = %d, want 4 (measured, untouched)", g.Congestion[1])
	}
	if g.Congestion[2] != 0 {
		t.Errorf("Congestion[2] = %d, want 0 (reset)", g.Congestion[2])
	}
}
