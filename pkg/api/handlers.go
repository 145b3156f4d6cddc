package api

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"itinerant/internal/graph"
	"itinerant/internal/routing"
)

// Router is the subset of routing.Router's API the handlers depend on,
// narrowed to an interface so tests can supply a stub.
type Router interface {
	ResolveLocation(ctx context.Context, text string) (graph.Location, bool)
	ShortestPath(src, dst graph.Location) (*routing.Route, error)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router Router
	stats  func() StatsResponse
}

// NewHandlers creates handlers with the given router. stats is called on
// every request to GET /api/v1/stats rather than captured once, since the
// refresh scheduler replaces the underlying snapshot over the server's
// lifetime.
func NewHandlers(router Router, stats func() StatsResponse) *Handlers {
	return &Handlers{router: router, stats: stats}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if req.Start == "" || req.End == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	start, ok := h.router.ResolveLocation(r.Context(), req.Start)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "location_not_found", "start")
		return
	}
	end, ok := h.router.ResolveLocation(r.Context(), req.End)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "location_not_found", "end")
		return
	}

	route, err := h.router.ShortestPath(start, end)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "point_too_far_from_road", "")
		return
	}
	if route == nil {
		writeError(w, http.StatusNotFound, "no_route_found", "")
		return
	}

	resp := RouteResponse{TotalITimeSeconds: route.TotalITimeSeconds}
	resp.Path = make([]LocationJSON, len(route.Path))
	for i, loc := range route.Path {
		resp.Path[i] = LocationJSON{Lon: loc.Lon, Lat: loc.Lat}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats())
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
