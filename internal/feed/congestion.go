package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"itinerant/internal/graph"
)

// FetchCongestionFeed retrieves and parses the '#'-delimited congestion
// feed (spec.md §6): no header row, four integer columns way_id, date,
// actual, predicted. Only the row with the largest date per way_id is
// retained.
func FetchCongestionFeed(ctx context.Context, url string) (map[int64]graph.Measurement, error) {
	return retryForever(ctx, "congestion feed fetch", func(ctx context.Context) (map[int64]graph.Measurement, error) {
		body, err := httpGet(ctx, url)
		if err != nil {
			return nil, err
		}
		return parseCongestionFeed(body)
	})
}

func parseCongestionFeed(body io.Reader) (map[int64]graph.Measurement, error) {
	measurements := make(map[int64]graph.Measurement)
	scanner := bufio.NewScanner(body)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "#")
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields, got %d", lineNo, len(fields))
		}

		wayID, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad way_id: %w", lineNo, err)
		}
		date, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad date: %w", lineNo, err)
		}
		actual, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad actual: %w", lineNo, err)
		}
		predicted, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad predicted: %w", lineNo, err)
		}

		if cur, ok := measurements[wayID]; !ok || cur.Date < date {
			measurements[wayID] = graph.Measurement{
				WayID: wayID, Date: date,
				Actual: uint8(actual), Predicted: uint8(predicted),
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return measurements, nil
}
