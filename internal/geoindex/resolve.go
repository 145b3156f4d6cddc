package geoindex

import (
	"context"
	"strconv"
	"strings"
)

// ResolvePlace turns free text into a (lon, lat) pair, per spec.md §4.3 and
// §9: first try parsing text as two whitespace-separated decimals (lon
// lat); only if that fails, and only if geocoder is non-nil, delegate to
// geocoder. Returns ok=false rather than an error when nothing resolves —
// an unresolved location is routine input, not a fault.
func ResolvePlace(ctx context.Context, text string, geocoder Geocoder) (lon, lat float64, ok bool) {
	text = strings.TrimSpace(text)
	if lon, lat, ok := parseCoordPair(text); ok {
		return lon, lat, true
	}
	if geocoder == nil {
		return 0, 0, false
	}
	lon, lat, err := geocoder.Geocode(ctx, text)
	if err != nil {
		return 0, 0, false
	}
	return lon, lat, true
}

func parseCoordPair(text string) (lon, lat float64, ok bool) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, false
	}
	lon, err1 := strconv.ParseFloat(fields[0], 64)
	lat, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lon, lat, true
}
