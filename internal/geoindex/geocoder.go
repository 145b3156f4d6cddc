package geoindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Geocoder turns free text into a coordinate. ResolvePlace falls back to
// one of these only once a direct "lon lat" parse fails (spec.md §9:
// "replace the exception-driven geocoder fallback with an explicit
// try-parse-as-coordinates, else try-geocode, else none chain").
type Geocoder interface {
	Geocode(ctx context.Context, text string) (lon, lat float64, err error)
}

// NominatimGeocoder queries the public Nominatim search API. It is the only
// geocoder this deployment ships; anything implementing Geocoder can stand
// in for it (e.g. a test double).
type NominatimGeocoder struct {
	Endpoint string // defaults to nominatimEndpoint when empty
	Client   *http.Client
}

const nominatimEndpoint = "https://nominatim.openstreetmap.org/search"

func (n NominatimGeocoder) Geocode(ctx context.Context, text string) (float64, float64, error) {
	endpoint := n.Endpoint
	if endpoint == "" {
		endpoint = nominatimEndpoint
	}
	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}

	q := url.Values{"q": {text}, "format": {"json"}, "limit": {"1"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", "itinerant-router/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, 0, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocode match for %q", text)
	}

	var lon, lat float64
	if _, err := fmt.Sscanf(results[0].Lon, "%g", &lon); err != nil {
		return 0, 0, fmt.Errorf("parse lon: %w", err)
	}
	if _, err := fmt.Sscanf(results[0].Lat, "%g", &lat); err != nil {
		return 0, 0, fmt.Errorf("parse lat: %w", err)
	}
	return lon, lat, nil
}
