package cache

import (
	"context"
	"sync"
	"time"

	"llm-market-analyst/internal/logger"
)

// Loader produces a fresh value. It may fail with a transient error.
type Loader[V any] func(ctx context.Context) (V, error)

// TTL is a time-bounded memoization of a single expensive, shareable value.
// The first caller that misses performs the load; concurrent callers during
// that load wait on the same in-flight result rather than issuing duplicate
// loader calls. On loader failure the previous value is served stale; before
// any successful load the configured fallback is served. GetOrLoad never
// returns an error.
type TTL[V any] struct {
	mu       sync.Mutex
	value    V
	hasValue bool
	storedAt time.Time
	ttl      time.Duration
	fallback V
	pending  *inflight[V]
}

type inflight[V any] struct {
	done chan struct{}
	val  V
	ok   bool
}

// NewTTL creates a cache with the given expiry window and fallback value.
func NewTTL[V any](ttl time.Duration, fallback V) *TTL[V] {
	return &TTL[V]{ttl: ttl, fallback: fallback}
}

// GetOrLoad returns the cached value if it is still fresh, otherwise invokes
// loader and stores the result. Readers never observe a half-written value.
func (c *TTL[V]) GetOrLoad(ctx context.Context, loader Loader[V]) V {
	c.mu.Lock()

	if c.hasValue && time.Since(c.storedAt) < c.ttl {
		v := c.value
		c.mu.Unlock()
		return v
	}

	if c.pending != nil {
		// Another caller is already loading; share its result.
		p := c.pending
		c.mu.Unlock()

		select {
		case <-p.done:
			if p.ok {
				return p.val
			}
			return c.staleOrFallback()
		case <-ctx.Done():
			return c.staleOrFallback()
		}
	}

	p := &inflight[V]{done: make(chan struct{})}
	c.pending = p
	c.mu.Unlock()

	val, err := loader(ctx)

	c.mu.Lock()
	c.pending = nil
	if err != nil {
		logger.Warn(ctx, "Cache loader failed, serving previous value", "error", err, "stale", c.hasValue)
		v := c.fallback
		if c.hasValue {
			v = c.value
		}
		p.val, p.ok = v, false
		c.mu.Unlock()
		close(p.done)
		return v
	}

	c.value = val
	c.hasValue = true
	c.storedAt = time.Now()
	p.val, p.ok = val, true
	c.mu.Unlock()
	close(p.done)
	return val
}

// Invalidate expires the cached value so the next GetOrLoad reloads. The old
// value is kept for stale serving if that reload fails.
func (c *TTL[V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storedAt = time.Time{}
}

func (c *TTL[V]) staleOrFallback() V {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasValue {
		return c.value
	}
	return c.fallback
}
