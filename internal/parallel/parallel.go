// Package parallel runs index-range work on a bounded errgroup.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers normalises a worker count; n <= 0 means GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// ForEachChunk splits [0, n) into at most workers contiguous ranges and
// calls fn for each on its own goroutine. Every index is visited exactly
// once. Small inputs run on the calling goroutine.
func ForEachChunk(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	if n == 0 {
		return nil
	}
	workers = Workers(workers)
	if workers == 1 || n < 2*workers {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, n)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		lo, hi := start, min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
