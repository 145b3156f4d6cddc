// Command server loads the cached road graph and highway directory, maps
// an initial congestion reading onto it, and serves routing queries over
// HTTP while a background scheduler keeps congestion current (spec.md §5,
// §6).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"itinerant/internal/cache"
	"itinerant/internal/congestion"
	"itinerant/internal/cost"
	"itinerant/internal/feed"
	"itinerant/internal/geoindex"
	"itinerant/internal/graph"
	"itinerant/internal/projector"
	"itinerant/internal/refresh"
	"itinerant/internal/routing"
	"itinerant/internal/snapshotstore"
	"itinerant/pkg/api"
)

const (
	defaultHighwaysURL    = "https://opendata-ajuntament.barcelona.cat/data/dataset/1090983a-1c40-4609-8620-14ad49aae3ab/resource/1d6c814c-70ef-4147-aa16-a49ddb952f72/download/transit_relacio_trams.csv"
	defaultCongestionsURL = "https://opendata-ajuntament.barcelona.cat/data/dataset/8319c2b1-4c21-4962-9acd-6db4c5ff1148/resource/2d456eb5-4ea6-4f68-9794-2f3f1a58a933/download"
)

func main() {
	graphPath := flag.String("graph", "graph.bin", "Path to the cached binary graph")
	highwaysPath := flag.String("highways", "highways.gob", "Path to the cached highway projections")
	highwaysURL := flag.String("highways-url", defaultHighwaysURL, "Highway directory CSV feed URL, used if the highways cache is missing")
	congestionsURL := flag.String("congestions-url", defaultCongestionsURL, "Congestion feed URL")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	ctx := context.Background()
	start := time.Now()

	log.Printf("loading graph cache from %s...", *graphPath)
	g, err := cache.ReadGraph(*graphPath)
	if err != nil {
		log.Fatalf("read graph cache: %v", err)
	}
	log.Printf("graph: %d nodes, %d edges", g.NumNodes, g.NumEdges)

	highways, err := cache.ReadHighways(*highwaysPath)
	if err != nil {
		log.Fatalf("read highways cache: %v", err)
	}
	if highways == nil {
		log.Printf("no highways cache at %s, fetching and projecting from scratch...", *highwaysPath)
		rawHighways, err := feed.FetchHighwayDirectory(ctx, *highwaysURL)
		if err != nil {
			log.Fatalf("fetch highway directory: %v", err)
		}
		idx := geoindex.Build(g)
		highways = projector.Project(idx, rawHighways)
		if err := cache.WriteHighways(*highwaysPath, highways); err != nil {
			log.Printf("warning: failed to persist highways cache: %v", err)
		}
	}
	log.Printf("highways: %d projected", len(highways))

	log.Println("fetching initial congestion feed...")
	measurements, err := feed.FetchCongestionFeed(ctx, *congestionsURL)
	if err != nil {
		log.Fatalf("fetch congestion feed: %v", err)
	}
	congestion.Map(g, highways, measurements)
	congestion.Impute(g)
	cost.Build(g)

	lastCongestion := make(map[int64]uint8, len(measurements))
	for wayID, m := range measurements {
		lastCongestion[wayID] = m.Actual
	}

	var store snapshotstore.Store
	store.Publish(&graph.Snapshot{Graph: g, Highways: highways, LastCongestion: lastCongestion})

	router := routing.New(&store, geoindex.NominatimGeocoder{})

	scheduler := refresh.New(&store, *congestionsURL)
	refreshCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go scheduler.Run(refreshCtx)

	log.Printf("ready in %s", time.Since(start).Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	statsFn := func() api.StatsResponse {
		snap := store.Get()
		return api.StatsResponse{
			NumNodes:    snap.Graph.NumNodes,
			NumEdges:    snap.Graph.NumEdges,
			NumHighways: len(snap.Highways),
		}
	}

	handlers := api.NewHandlers(router, statsFn)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("server stopped: %v", err)
		os.Exit(1)
	}
}
