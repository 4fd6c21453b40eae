package querycache_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"tickmate/internal/querycache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, opts querycache.Options) *querycache.Cache {
	t.Helper()
	c := querycache.New(opts)
	t.Cleanup(c.Stop)
	return c
}

func TestFetch_ServesCachedWithinStaleWindow(t *testing.T) {
	cache := newCache(t, querycache.Options{StaleTTL: time.Minute, MaxRetries: 1})

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "page", nil
	}

	v1, err := cache.Fetch(context.Background(), "tasks|p0", fn)
	require.NoError(t, err)
	v2, err := cache.Fetch(context.Background(), "tasks|p0", fn)
	require.NoError(t, err)

	assert.Equal(t, "page", v1)
	assert.Equal(t, "page", v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second read must not hit the network")
}

func TestFetch_RefetchesAfterStaleWindow(t *testing.T) {
	cache := newCache(t, querycache.Options{StaleTTL: 10 * time.Millisecond, MaxRetries: 1})

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	_, err := cache.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	v, err := cache.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestFetch_RetriesExactlyOnce(t *testing.T) {
	t.Run("second attempt succeeds", func(t *testing.T) {
		cache := newCache(t, querycache.Options{StaleTTL: time.Minute, MaxRetries: 1})

		var calls int32
		fn := func(ctx context.Context) (any, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return nil, errors.New("transport down")
			}
			return "recovered", nil
		}

		v, err := cache.Fetch(context.Background(), "k", fn)
		require.NoError(t, err)
		assert.Equal(t, "recovered", v)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("both attempts fail", func(t *testing.T) {
		cache := newCache(t, querycache.Options{StaleTTL: time.Minute, MaxRetries: 1})

		var calls int32
		fn := func(ctx context.Context) (any, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("transport down")
		}

		_, err := cache.Fetch(context.Background(), "k", fn)
		require.Error(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "one try plus one retry, never more")
	})
}

func TestFetch_FailedRefetchKeepsPreviousValue(t *testing.T) {
	cache := newCache(t, querycache.Options{StaleTTL: time.Minute, MaxRetries: 0})

	_, err := cache.Fetch(context.Background(), "k", func(ctx context.Context) (any, error) {
		return "old", nil
	})
	require.NoError(t, err)

	cache.Invalidate("k")

	_, err = cache.Fetch(context.Background(), "k", func(ctx context.Context) (any, error) {
		return nil, errors.New("down")
	})
	require.Error(t, err)

	v, ok := cache.Peek("k")
	require.True(t, ok, "stale data must stay available as a fallback")
	assert.Equal(t, "old", v)
}

func TestInvalidate_ByPrefix(t *testing.T) {
	cache := newCache(t, querycache.Options{StaleTTL: time.Minute, MaxRetries: 0})

	var taskCalls, otherCalls int32
	taskFn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&taskCalls, 1), nil
	}
	otherFn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&otherCalls, 1), nil
	}

	cache.Fetch(context.Background(), "tasks|page=0", taskFn)
	cache.Fetch(context.Background(), "tasks|page=1", taskFn)
	cache.Fetch(context.Background(), "profile", otherFn)

	cache.Invalidate("tasks")

	cache.Fetch(context.Background(), "tasks|page=0", taskFn)
	cache.Fetch(context.Background(), "tasks|page=1", taskFn)
	cache.Fetch(context.Background(), "profile", otherFn)

	assert.Equal(t, int32(4), atomic.LoadInt32(&taskCalls), "both task pages must refetch")
	assert.Equal(t, int32(1), atomic.LoadInt32(&otherCalls), "unrelated keys stay fresh")
}

func TestInvalidate_MidFlightFetchIsAlreadyStale(t *testing.T) {
	cache := newCache(t, querycache.Options{StaleTTL: time.Minute, MaxRetries: 0})

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	go func() {
		cache.Fetch(context.Background(), "tasks|page=0", func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return atomic.AddInt32(&calls, 1), nil
		})
	}()

	<-started
	cache.Invalidate("tasks")
	close(release)

	// Wait for the in-flight fetch to land.
	require.Eventually(t, func() bool {
		_, ok := cache.Peek("tasks|page=0")
		return ok
	}, time.Second, 5*time.Millisecond)

	// The stored result predates the invalidation, so the next read
	// goes back to the network.
	v, err := cache.Fetch(context.Background(), "tasks|page=0", func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestMutate_RetriesOnce(t *testing.T) {
	cache := newCache(t, querycache.Options{StaleTTL: time.Minute, MaxRetries: 1})

	var calls int32
	err := cache.Mutate(context.Background(), func(ctx context.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRefreshInterval_DefaultsApplied(t *testing.T) {
	cache := newCache(t, querycache.Options{})
	assert.Equal(t, 30*time.Second, cache.RefreshInterval())
}
