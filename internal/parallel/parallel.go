package parallel

import (
	"runtime"
	"sync"
)

// minGrain is the smallest amount of work handed to a goroutine. Elementwise
// kernels over small activations run serially rather than paying the
// scheduling overhead.
const minGrain = 1024

// For splits the range [0, n) into contiguous chunks and runs fn on each,
// using up to GOMAXPROCS goroutines.
func For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if chunks := (n + minGrain - 1) / minGrain; workers > chunks {
		workers = chunks
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
