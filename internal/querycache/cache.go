package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"tickmate/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Fetcher produces a fresh value for one cache key.
type Fetcher func(ctx context.Context) (any, error)

type Options struct {
	// StaleTTL is how long a fetched value is served without a new
	// network round trip.
	StaleTTL time.Duration
	// RefreshInterval is the cadence of the automatic background
	// refetch the UI drives.
	RefreshInterval time.Duration
	// MaxRetries is the number of automatic retries after a failed
	// fetch or mutation. The client contract is exactly one.
	MaxRetries uint
	// SweepInterval is how often long-expired entries are evicted.
	SweepInterval time.Duration
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache is the process-wide request cache. Created once at startup,
// stopped at exit, and passed explicitly to whatever needs to read
// through it or invalidate it.
type Cache struct {
	opts Options

	mu          sync.Mutex
	entries     map[string]entry
	invalidated map[string]time.Time

	stop chan struct{}
	once sync.Once
}

func New(opts Options) *Cache {
	if opts.StaleTTL <= 0 {
		opts.StaleTTL = 30 * time.Second
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 30 * time.Second
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}

	c := &Cache{
		opts:        opts,
		entries:     make(map[string]entry),
		invalidated: make(map[string]time.Time),
		stop:        make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Fetch returns the cached value for key while it is fresh; otherwise
// it runs fn (with the configured single retry) and stores the result.
// On a failed refetch the previous value stays available through Peek.
func (c *Cache) Fetch(ctx context.Context, key string, fn Fetcher) (any, error) {
	if v, ok := c.fresh(key); ok {
		return v, nil
	}

	started := time.Now()
	value, err := c.withRetry(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// An invalidation that happened while this fetch was in flight wins:
	// the result is stored for display but is already stale, so the next
	// read goes back to the network.
	fetchedAt := started
	if inv, ok := c.lastInvalidationLocked(key); ok && inv.After(started) {
		fetchedAt = inv.Add(-c.opts.StaleTTL)
	}
	c.entries[key] = entry{value: value, fetchedAt: fetchedAt}
	c.mu.Unlock()

	return value, nil
}

// Mutate runs a write through the same single-retry policy reads get.
func (c *Cache) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := c.withRetry(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// Peek returns the last known value for key regardless of freshness.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Invalidate marks every key under prefix stale. It only affects
// requests issued after the call; an in-flight fetch is not canceled.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated[prefix] = time.Now()
}

func (c *Cache) RefreshInterval() time.Duration {
	return c.opts.RefreshInterval
}

func (c *Cache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) fresh(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.fetchedAt) >= c.opts.StaleTTL {
		return nil, false
	}
	if inv, ok := c.lastInvalidationLocked(key); ok && !e.fetchedAt.After(inv) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) lastInvalidationLocked(key string) (time.Time, bool) {
	var latest time.Time
	found := false
	for prefix, at := range c.invalidated {
		if strings.HasPrefix(key, prefix) && at.After(latest) {
			latest = at
			found = true
		}
	}
	return latest, found
}

func (c *Cache) withRetry(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	var value any
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), uint64(c.opts.MaxRetries)),
		ctx,
	)
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		v, err := fn(ctx)
		if err != nil {
			logger.Warn("cache: fetch attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		value = v
		return nil
	}, policy)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// sweep drops entries that have been stale for several windows. Peek
// intentionally survives one staleness window so the UI can keep the
// previous page on screen while a refetch runs.
func (c *Cache) sweep() {
	ticker := time.NewTicker(c.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * c.opts.StaleTTL)
			c.mu.Lock()
			for key, e := range c.entries {
				if e.fetchedAt.Before(cutoff) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
