// Package parallel provides the worker helpers used to spread row-wise and
// fold-wise loops across CPU cores. Cross-validation rounds are independent,
// so the only synchronization needed is the final join.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0,items) into contiguous chunks, one per worker, and
// runs fn on each chunk concurrently. It returns after every chunk finishes.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := start + chunk
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially when items is at or below
// threshold. Spawning goroutines for a handful of rows costs more than the
// loop itself.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
