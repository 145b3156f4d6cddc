// Command ingest builds the cached road graph and highway directory from
// scratch: fetches the drivable network and highway polylines, projects
// highways onto graph nodes, and runs one congestion pass over the result
// (spec.md §4.1-§4.7). The graph cache keeps only topology, length and
// maxspeed, so that congestion pass is not persisted; the server fetches
// and applies congestion again at startup.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"itinerant/internal/cache"
	"itinerant/internal/congestion"
	"itinerant/internal/cost"
	"itinerant/internal/feed"
	"itinerant/internal/geoindex"
	"itinerant/internal/graph"
	"itinerant/internal/projector"
)

const (
	defaultPlace          = "Barcelona, Catalonia"
	defaultHighwaysURL    = "https://opendata-ajuntament.barcelona.cat/data/dataset/1090983a-1c40-4609-8620-14ad49aae3ab/resource/1d6c814c-70ef-4147-aa16-a49ddb952f72/download/transit_relacio_trams.csv"
	defaultCongestionsURL = "https://opendata-ajuntament.barcelona.cat/data/dataset/8319c2b1-4c21-4962-9acd-6db4c5ff1148/resource/2d456eb5-4ea6-4f68-9794-2f3f1a58a933/download"
)

func main() {
	place := flag.String("place", defaultPlace, "Overpass area name to fetch the road graph for")
	highwaysURL := flag.String("highways-url", defaultHighwaysURL, "Highway directory CSV feed URL")
	congestionsURL := flag.String("congestions-url", defaultCongestionsURL, "Congestion feed URL")
	graphOut := flag.String("graph-out", "graph.bin", "Output path for the cached binary graph")
	highwaysOut := flag.String("highways-out", "highways.gob", "Output path for the cached highway projections")
	flag.Parse()

	start := time.Now()
	ctx := context.Background()

	log.Printf("fetching road graph for %q from Overpass...", *place)
	roadGraph, err := feed.FetchRoadGraph(ctx, *place, feed.BBox{})
	if err != nil {
		log.Fatalf("fetch road graph: %v", err)
	}
	log.Printf("road graph: %d nodes, %d edges", len(roadGraph.Nodes), len(roadGraph.Edges))

	g := graph.Build(roadGraph.Nodes, roadGraph.Edges)
	log.Printf("built graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	component := graph.LargestComponent(g)
	g = graph.FilterToComponent(g, component)
	log.Printf("largest component: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	log.Printf("fetching highway directory from %s...", *highwaysURL)
	rawHighways, err := feed.FetchHighwayDirectory(ctx, *highwaysURL)
	if err != nil {
		log.Fatalf("fetch highway directory: %v", err)
	}
	log.Printf("highway directory: %d highways", len(rawHighways))

	log.Println("projecting highways onto graph nodes...")
	idx := geoindex.Build(g)
	highways := projector.Project(idx, rawHighways)
	log.Printf("projected %d of %d highways", len(highways), len(rawHighways))

	log.Printf("fetching initial congestion feed from %s...", *congestionsURL)
	measurements, err := feed.FetchCongestionFeed(ctx, *congestionsURL)
	if err != nil {
		log.Fatalf("fetch congestion feed: %v", err)
	}
	log.Printf("congestion feed: %d measurements", len(measurements))

	congestion.Map(g, highways, measurements)
	congestion.Impute(g)
	cost.Build(g)

	log.Printf("writing graph cache to %s...", *graphOut)
	if err := cache.WriteGraph(*graphOut, g); err != nil {
		log.Fatalf("write graph cache: %v", err)
	}
	log.Printf("writing highway cache to %s...", *highwaysOut)
	if err := cache.WriteHighways(*highwaysOut, highways); err != nil {
		log.Fatalf("write highways cache: %v", err)
	}

	log.Printf("done in %s", time.Since(start).Round(time.Second))
}
