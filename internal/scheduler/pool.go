package scheduler

import (
	"context"
	"sync"
	"time"

	"llm-market-analyst/internal/logger"
)

// Pool bounds concurrent task execution with a fixed worker count and a
// per-task deadline. It holds no task state of its own and is safe to share.
type Pool struct {
	workers int
	timeout time.Duration
}

func NewPool(workers int, timeout time.Duration) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers, timeout: timeout}
}

// Map runs fn for each index in [0, n) using at most p.workers concurrent
// goroutines and returns per-index values and errors. Each invocation gets a
// context bounded by the pool's per-task deadline.
//
// A task that overruns its deadline is abandoned: the worker slot is released
// so the batch keeps moving, the index records context.DeadlineExceeded, and
// any value the stray goroutine later produces is discarded. The batch wall
// time is therefore bounded even when fn ignores its context.
func Map[T any](ctx context.Context, p *Pool, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, []error) {
	values := make([]T, n)
	errs := make([]error, n)
	if n == 0 {
		return values, errs
	}

	type result struct {
		value T
		err   error
	}

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			for j := i; j < n; j++ {
				errs[j] = ctx.Err()
			}
			wg.Wait()
			return values, errs
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			tctx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			// Buffered so an abandoned task's late write never blocks.
			done := make(chan result, 1)
			go func() {
				v, err := fn(tctx, i)
				done <- result{value: v, err: err}
			}()

			select {
			case r := <-done:
				values[i], errs[i] = r.value, r.err
			case <-tctx.Done():
				errs[i] = tctx.Err()
				logger.Warn(tctx, "Task abandoned after deadline", "index", i, "timeout", p.timeout.String())
			}
		}(i)
	}

	wg.Wait()
	return values, errs
}
