// Package feed implements C1: fetching the road graph, the highway
// directory, and the congestion feed from the municipal open-data
// collaborators, retrying indefinitely on transient failure (spec.md
// §4.1, §7).
package feed

import (
	"context"
	"log"
	"time"
)

// retryDelay is the fixed pause between fetch attempts. Spec.md §4.1: "No
// backoff is required; a fixed short delay is acceptable." A var, not a
// const, so tests can shrink it instead of waiting out real retries.
var retryDelay = 5 * time.Second

// retryForever calls fetch until it succeeds, logging a warning and
// pausing retryDelay between attempts. Both network errors and parse
// errors on an otherwise-reachable feed are treated as transient
// (spec.md §7): the caller never sees an error, only the eventual result,
// unless ctx is canceled first.
func retryForever[T any](ctx context.Context, name string, fetch func(context.Context) (T, error)) (T, error) {
	var attempt int
	for {
		attempt++
		result, err := fetch(ctx)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			var zero T
			return zero, ctx.Err()
		}
		log.Printf("%s: attempt %d failed: %v; retrying in %s", name, attempt, err, retryDelay)
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}
