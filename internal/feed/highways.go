package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Highway is a municipal highway polyline keyed by way_id before
// projection onto the road graph (spec.md §3, §6).
type Highway struct {
	WayID       int64
	Description string
	Lons        []float64
	Lats        []float64
}

// FetchHighwayDirectory retrieves and parses the CSV highway directory
// feed (spec.md §6): comma-separated, double-quote quoting, header row
// skipped, columns way_id, description, coordinates (a flat
// lon1,lat1,lon2,lat2,... list).
func FetchHighwayDirectory(ctx context.Context, url string) (map[int64]*Highway, error) {
	return retryForever(ctx, "highway directory fetch", func(ctx context.Context) (map[int64]*Highway, error) {
		body, err := httpGet(ctx, url)
		if err != nil {
			return nil, err
		}
		return parseHighwayCSV(body)
	})
}

func parseHighwayCSV(body io.Reader) (map[int64]*Highway, error) {
	r := csv.NewReader(body)
	r.Comma = ','
	r.LazyQuotes = false

	// Skip header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return map[int64]*Highway{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	highways := make(map[int64]*Highway)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if len(record) != 3 {
			continue
		}

		wayID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			continue
		}
		coords := strings.Split(record[2], ",")
		if len(coords)%2 != 0 || len(coords) == 0 {
			continue
		}

		h := &Highway{WayID: wayID, Description: record[1]}
		ok := true
		for i := 0; i < len(coords); i += 2 {
			lon, err1 := strconv.ParseFloat(strings.TrimSpace(coords[i]), 64)
			lat, err2 := strconv.ParseFloat(strings.TrimSpace(coords[i+1]), 64)
			if err1 != nil || err2 != nil {
				ok = false
				break
			}
			h.Lons = append(h.Lons, lon)
			h.Lats = append(h.Lats, lat)
		}
		if !ok || len(h.Lons) == 0 {
			continue
		}
		highways[wayID] = h
	}
	return highways, nil
}

func httpGet(ctx context.Context, target string) (io.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 256<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return strings.NewReader(string(data)), nil
}
