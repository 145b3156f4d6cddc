package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"itinerant/internal/geo"
	"itinerant/internal/graph"
)

// overpassEndpoint is the Overpass API interpreter used to resolve a place
// name into a drivable road graph. The exact source format is opaque to
// the rest of the core (spec.md §6); Overpass is simply this deployment's
// choice of road-graph collaborator, in the same role the teacher's local
// .osm.pbf extract played.
const overpassEndpoint = "https://overpass-api.de/api/interpreter"

// carHighways lists highway tag values accessible by car, carried over
// from the teacher's pkg/osm/parser.go.
var carHighways = map[string]bool{
	"motorway": true, "motorway_link": true,
	"trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true,
	"secondary": true, "secondary_link": true,
	"tertiary": true, "tertiary_link": true,
	"unclassified": true, "residential": true,
	"living_street": true, "service": true,
}

func isCarAccessible(tags osm.Tags) bool {
	if !carHighways[tags.Find("highway")] {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}
	return true
}

func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward, backward = true, true
	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		forward, backward = false, false
	}
	return forward, backward
}

// parseMaxSpeed normalizes the OSM maxspeed tag (absent, a single number,
// or occasionally a ';'-separated list of numbers for lane-specific limits)
// into a single km/h value, averaging a list (spec.md §4.7, design notes
// §9: "normalize at ingest into an Option<f64>... taking the arithmetic
// mean for lists").
func parseMaxSpeed(tags osm.Tags) float64 {
	raw := tags.Find("maxspeed")
	if raw == "" {
		return graph.NoSpeed
	}
	parts := strings.Split(raw, ";")
	var sum float64
	var count int
	for _, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimSuffix(p, " mph")
		p = strings.TrimSuffix(p, "mph")
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return graph.NoSpeed
	}
	return sum / float64(count)
}

// BBox optionally restricts the parsed edge set to a bounding box, mirroring
// the teacher's --bbox/--singapore/--kl flags. The Overpass query itself is
// not narrowed by it; edges with an endpoint outside the box are dropped
// after the response is decoded.
type BBox struct {
	MinLat, MaxLat, MinLon, MaxLon float64
}

func (b BBox) isZero() bool {
	return b == BBox{}
}

// RoadGraph is the result of FetchRoadGraph: raw nodes and directed edges
// ready for graph.Build.
type RoadGraph struct {
	Nodes []graph.RawNode
	Edges []graph.RawEdge
}

// FetchRoadGraph retrieves the drivable road network for a named place
// from Overpass, retrying indefinitely on failure (spec.md §4.1).
func FetchRoadGraph(ctx context.Context, place string, bbox BBox) (*RoadGraph, error) {
	return retryForever(ctx, "road graph fetch", func(ctx context.Context) (*RoadGraph, error) {
		body, err := fetchOverpassXML(ctx, place, bbox)
		if err != nil {
			return nil, err
		}
		return parseOverpassXML(ctx, body, bbox)
	})
}

func fetchOverpassXML(ctx context.Context, place string, bbox BBox) ([]byte, error) {
	query := fmt.Sprintf(`[out:xml][timeout:180];
area["name"="%s"]->.searchArea;
(
  way["highway"](area.searchArea);
);
(._;>;);
out body;`, place)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, overpassEndpoint,
		strings.NewReader(url.Values{"data": {query}}.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 512<<20))
}

// parseOverpassXML decodes an Overpass OSM-XML response. Nodes are
// guaranteed to precede the ways that reference them in Overpass's output
// order, so unlike the teacher's two-pass PBF parser this only needs a
// single pass over the stream.
func parseOverpassXML(ctx context.Context, body []byte, bbox BBox) (*RoadGraph, error) {
	useBBox := !bbox.isZero()

	nodeLon := make(map[osm.NodeID]float64)
	nodeLat := make(map[osm.NodeID]float64)
	var edges []graph.RawEdge
	referenced := make(map[osm.NodeID]struct{})

	scanner := osmxml.New(ctx, bytes.NewReader(body))
	scanner.SkipRelations = true
	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			nodeLon[obj.ID] = obj.Lon
			nodeLat[obj.ID] = obj.Lat
		case *osm.Way:
			if !isCarAccessible(obj.Tags) || len(obj.Nodes) < 2 {
				continue
			}
			fwd, bwd := directionFlags(obj.Tags)
			if !fwd && !bwd {
				continue
			}
			maxSpeed := parseMaxSpeed(obj.Tags)

			for i := 0; i < len(obj.Nodes)-1; i++ {
				fromID, toID := obj.Nodes[i].ID, obj.Nodes[i+1].ID
				fromLat, okFrom := nodeLat[fromID]
				fromLon := nodeLon[fromID]
				toLat, okTo := nodeLat[toID]
				toLon := nodeLon[toID]
				if !okFrom || !okTo {
					continue
				}
				if useBBox && (!bbox.contains(fromLat, fromLon) || !bbox.contains(toLat, toLon)) {
					continue
				}

				dist := geo.Haversine(fromLat, fromLon, toLat, toLon)
				if dist <= 0 {
					dist = 0.1 // avoid zero-length edges, spec.md §3 invariant length > 0
				}
				if fwd {
					edges = append(edges, graph.RawEdge{From: int64(fromID), To: int64(toID), Length: dist, MaxSpeed: maxSpeed})
				}
				if bwd {
					edges = append(edges, graph.RawEdge{From: int64(toID), To: int64(fromID), Length: dist, MaxSpeed: maxSpeed})
				}
				referenced[fromID] = struct{}{}
				referenced[toID] = struct{}{}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("parse overpass xml: %w", err)
	}
	scanner.Close()

	nodes := make([]graph.RawNode, 0, len(referenced))
	for id := range referenced {
		nodes = append(nodes, graph.RawNode{ID: int64(id), Lon: nodeLon[id], Lat: nodeLat[id]})
	}

	if len(nodes) == 0 {
		return nil, fmt.Errorf("overpass response for place contained no drivable ways")
	}
	return &RoadGraph{Nodes: nodes, Edges: edges}, nil
}

func (b BBox) contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon && !math.IsNaN(lat)
}
