package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapBoundsConcurrency(t *testing.T) {
	p := NewPool(2, time.Second)

	var active, peak int32
	_, errs := Map(context.Background(), p, 5, func(ctx context.Context, i int) (int, error) {
		cur := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return i, nil
	})

	for i, err := range errs {
		if err != nil {
			t.Errorf("task %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestMapWaveTiming(t *testing.T) {
	p := NewPool(2, time.Second)

	start := time.Now()
	Map(context.Background(), p, 5, func(ctx context.Context, i int) (struct{}, error) {
		time.Sleep(50 * time.Millisecond)
		return struct{}{}, nil
	})
	elapsed := time.Since(start)

	// 5 tasks over 2 workers is three waves.
	if elapsed < 140*time.Millisecond {
		t.Errorf("elapsed = %v, expected at least three 50ms waves", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("elapsed = %v, tasks did not run concurrently", elapsed)
	}
}

func TestMapAbandonsDeadlineOverrun(t *testing.T) {
	p := NewPool(2, 50*time.Millisecond)

	start := time.Now()
	values, errs := Map(context.Background(), p, 3, func(ctx context.Context, i int) (string, error) {
		if i == 1 {
			// Ignores its context on purpose.
			time.Sleep(400 * time.Millisecond)
			return "late", nil
		}
		return "ok", nil
	})
	elapsed := time.Since(start)

	if errs[0] != nil || errs[2] != nil {
		t.Errorf("healthy tasks failed: %v %v", errs[0], errs[2])
	}
	if !errors.Is(errs[1], context.DeadlineExceeded) {
		t.Errorf("errs[1] = %v, want deadline exceeded", errs[1])
	}
	if values[1] != "" {
		t.Errorf("abandoned task leaked a value: %q", values[1])
	}
	if elapsed > 300*time.Millisecond {
		t.Errorf("elapsed = %v, abandonment did not bound the batch", elapsed)
	}
}

func TestMapIsolatesFailures(t *testing.T) {
	p := NewPool(4, time.Second)
	boom := errors.New("boom")

	values, errs := Map(context.Background(), p, 4, func(ctx context.Context, i int) (int, error) {
		if i == 2 {
			return 0, boom
		}
		return i * 10, nil
	})

	if !errors.Is(errs[2], boom) {
		t.Errorf("errs[2] = %v, want boom", errs[2])
	}
	for _, i := range []int{0, 1, 3} {
		if errs[i] != nil {
			t.Errorf("task %d failed: %v", i, errs[i])
		}
		if values[i] != i*10 {
			t.Errorf("values[%d] = %d, want %d", i, values[i], i*10)
		}
	}
}

func TestMapEmptyInput(t *testing.T) {
	p := NewPool(8, time.Second)
	values, errs := Map(context.Background(), p, 0, func(ctx context.Context, i int) (int, error) {
		t.Fatal("fn called for empty input")
		return 0, nil
	})
	if len(values) != 0 || len(errs) != 0 {
		t.Errorf("got %d values, %d errs, want none", len(values), len(errs))
	}
}

func TestMapHonorsCancelledParent(t *testing.T) {
	p := NewPool(1, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := Map(ctx, p, 2, func(ctx context.Context, i int) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Second):
			return i, nil
		}
	})

	for i, err := range errs {
		if !errors.Is(err, context.Canceled) {
			t.Errorf("task %d: err = %v, want canceled", i, err)
		}
	}
}
