package fire

import "golang.org/x/sync/errgroup"

// minChunk is the smallest index range worth handing to its own goroutine.
const minChunk = 2048

// parallelFor calls fn over disjoint sub-ranges covering [0, n). Every range
// is processed exactly once and parallelFor returns only after all of them
// finished, so consecutive calls act as a barrier between passes.
func parallelFor(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	chunks := workers
	if limit := (n + minChunk - 1) / minChunk; chunks > limit {
		chunks = limit
	}
	if chunks <= 1 {
		fn(0, n)
		return
	}
	size := (n + chunks - 1) / chunks
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
