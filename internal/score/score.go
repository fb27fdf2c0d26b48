package score

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/sched-scorer/internal/provider"
	"github.com/pdiddy/sched-scorer/pkg/types"
)

const (
	defaultBatchSize  = 12
	defaultMaxRetries = 2
)

// RunSummary reports what a scoring run did.
type RunSummary struct {
	Scored        int
	Unscored      int
	Batches       int
	FailedBatches int
	CacheHit      bool
}

// Total returns the number of events processed.
func (s RunSummary) Total() int {
	return s.Scored + s.Unscored
}

// HasFailures reports whether any batch exhausted its retries.
func (s RunSummary) HasFailures() bool {
	return s.FailedBatches > 0
}

// backoffBase controls the base duration for batch retry backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// batchResult holds one batch's outcome in its slot, so concurrent
// arrival order never affects the merged output.
type batchResult struct {
	scored []types.ScoredEvent
	failed bool
}

// ScoreAll scores events against the profile in batches of
// cfg.BatchSize. A full cache hit returns without any backend calls;
// a nil cache bypasses lookup and store for the run (the --no-cache
// path) without touching persisted entries. A batch that exhausts its
// retries marks only its own events unscored and the run continues;
// partial runs are not cached so a re-run can retry the failed events.
// A negative cfg.MaxRetries selects the default of 2 extra attempts;
// an explicit zero disables batch retries. The returned slice is
// sorted by total score descending.
func ScoreAll(ctx context.Context, backend provider.Backend, events []types.Event, prof types.Profile, cache *Cache, cfg types.ScoringConfig, w io.Writer) ([]types.ScoredEvent, RunSummary, error) {
	if len(events) == 0 {
		return nil, RunSummary{}, nil
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	key := prof.CacheKey()
	hash := ContentHash(events)

	if cache != nil {
		if cached, ok := cache.Lookup(key, hash, events); ok {
			fmt.Fprintf(w, "using cached scores from %s\n", filepath.Base(cache.Path(key, hash)))
			summary := RunSummary{CacheHit: true}
			for _, se := range cached {
				if se.Score.Scored {
					summary.Scored++
				} else {
					summary.Unscored++
				}
			}
			sortByTotal(cached)
			return cached, summary, nil
		}
	}

	batches := makeBatches(events, batchSize)
	fmt.Fprintf(w, "scoring %d events in %d batches using %s (%s)\n",
		len(events), len(batches), backend.Name(), backend.Model())

	lw := &lockedWriter{w: w}
	results := make([]batchResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	limit := cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, batch := range batches {
		g.Go(func() error {
			scored, err := callWithRetry(gctx, backend, batch, prof, maxRetries, lw)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				fmt.Fprintf(lw, "failed batch %d/%d: %v\n", i+1, len(batches), err)
				results[i] = batchResult{scored: unscoredBatch(batch, err), failed: true}
				return nil
			}
			fmt.Fprintf(lw, "scored batch %d/%d (%d events)\n", i+1, len(batches), len(batch))
			results[i] = batchResult{scored: scored}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, RunSummary{}, err
	}

	summary := RunSummary{Batches: len(batches)}
	var all []types.ScoredEvent
	for _, br := range results {
		if br.failed {
			summary.FailedBatches++
		}
		all = append(all, br.scored...)
	}
	for _, se := range all {
		if se.Score.Scored {
			summary.Scored++
		} else {
			summary.Unscored++
		}
	}
	sortByTotal(all)

	if cache != nil && summary.FailedBatches == 0 {
		if err := cache.Store(key, hash, all); err != nil {
			fmt.Fprintf(w, "warning: caching scores failed: %v\n", err)
		} else {
			fmt.Fprintf(w, "scores cached to %s\n", filepath.Base(cache.Path(key, hash)))
		}
	}

	return all, summary, nil
}

// callWithRetry retries a failed batch with exponential backoff: 2s,
// then 4s at the default backoffBase.
func callWithRetry(ctx context.Context, backend provider.Backend, events []types.Event, prof types.Profile, maxRetries int, w io.Writer) ([]types.ScoredEvent, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			fmt.Fprintf(w, "retry %d/%d after error: %v\n", attempt, maxRetries, lastErr)
			backoff := time.Duration(1<<attempt) * backoffBase
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		scored, err := backend.ScoreBatch(ctx, events, prof)
		if err == nil {
			return scored, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: after %d retries: %v", ErrBackend, maxRetries, lastErr)
}

// unscoredBatch marks every event of a failed batch unscored, recording
// the failure in the reasoning field.
func unscoredBatch(events []types.Event, err error) []types.ScoredEvent {
	out := make([]types.ScoredEvent, len(events))
	for i, ev := range events {
		out[i] = types.ScoredEvent{
			Event: ev,
			Score: types.Score{Reasoning: fmt.Sprintf("Scoring failed: %v", err)},
		}
	}
	return out
}

// makeBatches splits events into consecutive batches of at most size.
func makeBatches(events []types.Event, size int) [][]types.Event {
	var batches [][]types.Event
	for start := 0; start < len(events); start += size {
		end := start + size
		if end > len(events) {
			end = len(events)
		}
		batches = append(batches, events[start:end])
	}
	return batches
}

// sortByTotal orders by total score descending. Stable so equal totals
// keep feed order and re-runs stay deterministic.
func sortByTotal(scored []types.ScoredEvent) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score.Total() > scored[j].Score.Total()
	})
}

// lockedWriter serializes progress lines from concurrent batch workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
