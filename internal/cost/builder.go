// Package cost implements C7: deriving itime from length, maxspeed and
// congestion (spec.md §4.7).
package cost

import (
	"math"

	"itinerant/internal/graph"
)

// defaultSpeedKmh is used when an edge carries no maxspeed tag.
const defaultSpeedKmh = 30.0

// turnPenaltySeconds is added to every edge's itime, approximating the
// time lost turning, crossing an intersection, or waiting at a light.
const turnPenaltySeconds = 5.0

// Build recomputes ITime for every edge from its Length, MaxSpeed and
// Congestion. The base term divides Length (meters) directly by MaxSpeed
// (km/h) without unit conversion: this mismatch is carried over from the
// original intentionally (spec.md §9, Open Questions — not a bug to fix).
func Build(g *graph.Graph) {
	for e := range g.ITime {
		speed := g.MaxSpeed[e]
		if speed == graph.NoSpeed {
			speed = defaultSpeedKmh
		}

		itime := g.Length[e] / speed

		congestion := g.Congestion[e]
		if congestion == graph.CongestionBlocked {
			g.ITime[e] = math.Inf(1)
			continue
		}
		itime /= 1 - (float64(congestion)-1)/6
		itime += turnPenaltySeconds
		g.ITime[e] = itime
	}
}
