// compare queries two running instances of this router for the same
// start/end pair and prints how their answers differ. Adapted from the
// teacher's cmd/visualize compare tool: same concurrent fan-out-then-wait
// shape, but narrowed to comparing two of our own deployments (e.g. a
// candidate build against production, or the same instance polled minutes
// apart to see how a congestion refresh moved the answer) instead of
// third-party routing services.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

type routeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type locationJSON struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type routeResponse struct {
	Path              []locationJSON `json:"path"`
	TotalITimeSeconds float64        `json:"total_itime_seconds"`
}

type queryResult struct {
	Label             string
	LatencyMs         int64
	TotalITimeSeconds float64
	NumPoints         int
	Error             string
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

func main() {
	urlA := flag.String("a", "http://localhost:8091", "first router instance")
	urlB := flag.String("b", "http://localhost:8091", "second router instance")
	start := flag.String("start", "", "start location (free text or \"lon lat\")")
	end := flag.String("end", "", "end location (free text or \"lon lat\")")
	flag.Parse()

	if *start == "" || *end == "" {
		log.Fatal("both -start and -end are required")
	}

	req := routeRequest{Start: *start, End: *end}

	var a, b queryResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); a = queryRoute("a", *urlA, req) }()
	go func() { defer wg.Done(); b = queryRoute("b", *urlB, req) }()
	wg.Wait()

	printResult(a)
	printResult(b)

	if a.Error == "" && b.Error == "" {
		delta := b.TotalITimeSeconds - a.TotalITimeSeconds
		fmt.Printf("\nitime delta (b - a): %+.1fs\n", delta)
	}
}

func printResult(r queryResult) {
	if r.Error != "" {
		fmt.Printf("[%s] error: %s\n", r.Label, r.Error)
		return
	}
	fmt.Printf("[%s] itime=%.1fs points=%d latency=%dms\n", r.Label, r.TotalITimeSeconds, r.NumPoints, r.LatencyMs)
}

func queryRoute(label, baseURL string, req routeRequest) queryResult {
	start := time.Now()
	body, _ := json.Marshal(req)

	resp, err := httpClient.Post(baseURL+"/api/v1/route", "application/json", bytes.NewReader(body))
	if err != nil {
		return queryResult{Label: label, Error: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return queryResult{Label: label, Error: fmt.Sprintf("read failed: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return queryResult{Label: label, Error: errResp.Error}
		}
		return queryResult{Label: label, Error: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var routeResp routeResponse
	if err := json.Unmarshal(data, &routeResp); err != nil {
		return queryResult{Label: label, Error: fmt.Sprintf("decode failed: %v", err)}
	}

	return queryResult{
		Label:             label,
		LatencyMs:         time.Since(start).Milliseconds(),
		TotalITimeSeconds: routeResp.TotalITimeSeconds,
		NumPoints:         len(routeResp.Path),
	}
}
