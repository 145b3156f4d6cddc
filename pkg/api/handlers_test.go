package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"itinerant/internal/graph"
	"itinerant/internal/routing"
)

// stubRouter implements Router for testing.
type stubRouter struct {
	locations map[string]graph.Location
	route     *routing.Route
	err       error
}

func (s *stubRouter) ResolveLocation(ctx context.Context, text string) (graph.Location, bool) {
	loc, ok := s.locations[text]
	return loc, ok
}

func (s *stubRouter) ShortestPath(src, dst graph.Location) (*routing.Route, error) {
	return s.route, s.err
}

func testStats() StatsResponse {
	return StatsResponse{NumNodes: 100}
}

func TestHandleRoute_Success(t *testing.T) {
	stub := &stubRouter{
		locations: map[string]graph.Location{
			"2.17 41.38": {Lon: 2.17, Lat: 41.38},
			"2.18 41.39": {Lon: 2.18, Lat: 41.39},
		},
		route: &routing.Route{
			Path:              []graph.Location{{Lon: 2.17, Lat: 41.38}, {Lon: 2.18, Lat: 41.39}},
			TotalITimeSeconds: 42.5,
		},
	}
	h := NewHandlers(stub, testStats)

	body := `{"start":"2.17 41.38","end":"2.18 41.39"}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalITimeSeconds != 42.5 {
		t.Errorf("TotalITimeSeconds = %f, want 42.5", resp.TotalITimeSeconds)
	}
	if len(resp.Path) != 2 {
		t.Errorf("Path length = %d, want 2", len(resp.Path))
	}
}

func TestHandleRoute_InvalidJSON(t *testing.T) {
	h := NewHandlers(&stubRouter{}, testStats)

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_MissingContentType(t *testing.T) {
	h := NewHandlers(&stubRouter{}, testStats)

	body := `{"start":"2.17 41.38","end":"2.18 41.39"}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_LocationNotFound(t *testing.T) {
	h := NewHandlers(&stubRouter{locations: map[string]graph.Location{}}, testStats)

	body := `{"start":"nowhere","end":"2.18 41.39"}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestHandleRoute_NoRoute(t *testing.T) {
	stub := &stubRouter{
		locations: map[string]graph.Location{
			"2.17 41.38": {Lon: 2.17, Lat: 41.38},
			"2.18 41.39": {Lon: 2.18, Lat: 41.39},
		},
		route: nil,
	}
	h := NewHandlers(stub, testStats)

	body := `{"start":"2.17 41.38","end":"2.18 41.39"}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleRoute_PointTooFar(t *testing.T) {
	stub := &stubRouter{
		locations: map[string]graph.Location{
			"2.17 41.38": {Lon: 2.17, Lat: 41.38},
			"2.18 41.39": {Lon: 2.18, Lat: 41.39},
		},
		err: errors.New("no graph node near source location"),
	}
	h := NewHandlers(stub, testStats)

	body := `{"start":"2.17 41.38","end":"2.18 41.39"}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&stubRouter{}, testStats)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewHandlers(&stubRouter{}, func() StatsResponse {
		return StatsResponse{NumNodes: 500000, NumEdges: 1000000, NumHighways: 900}
	})

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.NumNodes != 500000 {
		t.Errorf("NumNodes = %d, want 500000", resp.NumNodes)
	}
}
