// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package features

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest number of rows handed to one goroutine.
const minChunk = 512

// parallelMap applies fn to every index in [0, n) using up to workers
// goroutines over contiguous chunks. fn must only write state owned by its
// index. workers <= 0 uses GOMAXPROCS.
func parallelMap(ctx context.Context, n, workers int, fn func(i int)) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	return g.Wait()
}
