package ratelimiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armonaut/armonaut/pkg/ratelimiter"
)

// fakeClock is a manually advanced clock shared with the limiter under test.
type fakeClock struct {
	mu   sync.Mutex
	base time.Time
	now  time.Time
}

func newFakeClock() *fakeClock {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &fakeClock{base: base, now: base}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// At moves the clock to base+offset.
func (c *fakeClock) At(offset time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.base.Add(offset)
}

type storeFactory func(t *testing.T) ratelimiter.Store

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) ratelimiter.Store {
			return ratelimiter.NewMemoryStore()
		},
		"redis": func(t *testing.T) ratelimiter.Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return ratelimiter.NewRedisStore(client)
		},
	}
}

func TestSlidingWindow_Scenario(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			clock := newFakeClock()
			limiter, err := ratelimiter.New(newStore(t), "2 per 60 seconds", ratelimiter.WithClock(clock.Now))
			require.NoError(t, err)

			clock.At(0)
			ok, err := limiter.Hit(ctx)
			require.NoError(t, err)
			assert.True(t, ok, "hit at t=0")

			clock.At(time.Second)
			ok, err = limiter.Hit(ctx)
			require.NoError(t, err)
			assert.True(t, ok, "hit at t=1")

			clock.At(2 * time.Second)
			ok, err = limiter.Hit(ctx)
			require.NoError(t, err)
			assert.False(t, ok, "hit at t=2")

			wait, found, err := limiter.TimeUntilReset(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 58*time.Second, wait)

			clock.At(61 * time.Second)
			ok, err = limiter.Hit(ctx)
			require.NoError(t, err)
			assert.True(t, ok, "hit at t=61")
		})
	}
}

func TestSlidingWindow_NoBurstAtWindowEdge(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			clock := newFakeClock()
			limiter, err := ratelimiter.New(newStore(t), "3 per 10 seconds", ratelimiter.WithClock(clock.Now))
			require.NoError(t, err)

			// Three hits late in the first ten seconds.
			for _, at := range []time.Duration{7 * time.Second, 8 * time.Second, 9 * time.Second} {
				clock.At(at)
				ok, err := limiter.Hit(ctx)
				require.NoError(t, err)
				require.True(t, ok)
			}

			// A fixed bucket would reset at t=10; a sliding window must not.
			clock.At(11 * time.Second)
			ok, err := limiter.Hit(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			// Exactly one window after the oldest counted hit.
			clock.At(17 * time.Second)
			ok, err = limiter.Hit(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSlidingWindow_TestDoesNotConsume(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			limiter, err := ratelimiter.New(newStore(t), "2 per minute")
			require.NoError(t, err)

			for range 10 {
				ok, err := limiter.Test(ctx, "user", "42")
				require.NoError(t, err)
				assert.True(t, ok)
			}

			for range 2 {
				ok, err := limiter.Hit(ctx, "user", "42")
				require.NoError(t, err)
				assert.True(t, ok)
			}

			ok, err := limiter.Test(ctx, "user", "42")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSlidingWindow_TimeUntilResetMatchesTest(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			clock := newFakeClock()
			limiter, err := ratelimiter.New(newStore(t), "3 per 30 seconds", ratelimiter.WithClock(clock.Now))
			require.NoError(t, err)

			for i := range 6 {
				clock.At(time.Duration(i) * 4 * time.Second)

				allowed, err := limiter.Test(ctx)
				require.NoError(t, err)

				wait, found, err := limiter.TimeUntilReset(ctx)
				require.NoError(t, err)

				if allowed {
					assert.False(t, found, "step %d", i)
				} else {
					assert.True(t, found, "step %d", i)
					assert.Positive(t, wait, "step %d", i)
				}

				_, err = limiter.Hit(ctx)
				require.NoError(t, err)
			}
		})
	}
}

func TestSlidingWindow_MultipleWindows(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			clock := newFakeClock()
			limiter, err := ratelimiter.New(newStore(t), "1 per 5 seconds; 3 per 1 minute", ratelimiter.WithClock(clock.Now))
			require.NoError(t, err)

			steps := []struct {
				at   time.Duration
				want bool
			}{
				{0, true},
				{time.Second, false}, // refused by the burst window, still recorded by the sustained one
				{6 * time.Second, true},
				{12 * time.Second, false}, // sustained window holds 0s, 1s and 6s
				{18 * time.Second, false},
			}

			for _, s := range steps {
				clock.At(s.at)
				ok, err := limiter.Hit(ctx)
				require.NoError(t, err)
				assert.Equal(t, s.want, ok, "hit at %s", s.at)
			}

			// The burst window still admitted and recorded the t=18 hit,
			// so it is the one that frees up first.
			wait, found, err := limiter.TimeUntilReset(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 5*time.Second, wait)

			clock.At(23 * time.Second)
			wait, found, err = limiter.TimeUntilReset(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 37*time.Second, wait)
		})
	}
}

func TestSlidingWindow_IdentifiersAreIsolated(t *testing.T) {
	t.Parallel()

	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			limiter, err := ratelimiter.New(newStore(t), "1 per hour", ratelimiter.WithIdentifiers("login", "user"))
			require.NoError(t, err)

			ok, err := limiter.Hit(ctx, "1")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = limiter.Hit(ctx, "1")
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = limiter.Hit(ctx, "2")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, limiter.Clear(ctx, "1"))

			ok, err = limiter.Hit(ctx, "1")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSlidingWindow_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	for name, newStore := range stores() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			limiter, err := ratelimiter.New(newStore(t), "10 per minute")
			require.NoError(t, err)

			var (
				admitted atomic.Int64
				wg       sync.WaitGroup
			)
			for range 50 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := limiter.Hit(ctx, "shared")
					if assert.NoError(t, err) && ok {
						admitted.Add(1)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, int64(10), admitted.Load())
		})
	}
}

func TestSlidingWindow_StorageUnavailable(t *testing.T) {
	t.Parallel()

	t.Run("redis down", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = client.Close() })

		limiter, err := ratelimiter.New(ratelimiter.NewRedisStore(client), "5 per minute")
		require.NoError(t, err)
		mr.Close()

		ctx := context.Background()

		_, err = limiter.Hit(ctx, "x")
		assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)

		_, err = limiter.Test(ctx, "x")
		assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)

		_, _, err = limiter.TimeUntilReset(ctx, "x")
		assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)

		err = limiter.Clear(ctx, "x")
		assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), "5 per minute")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = limiter.Hit(ctx, "x")
		assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// stalledStore blocks every call until its context ends.
type stalledStore struct{}

func (stalledStore) Acquire(ctx context.Context, _ string, _ ratelimiter.Window, _ time.Time) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func (stalledStore) Peek(ctx context.Context, _ string, _ ratelimiter.Window, _ time.Time) (int, time.Time, error) {
	<-ctx.Done()
	return 0, time.Time{}, ctx.Err()
}

func (stalledStore) Clear(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSlidingWindow_StoreTimeout(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.New(stalledStore{}, "5 per minute; 100 per day",
		ratelimiter.WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	ctx := context.Background()
	start := time.Now()

	_, err = limiter.Hit(ctx, "x")
	assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = limiter.Test(ctx, "x")
	assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)

	_, _, err = limiter.TimeUntilReset(ctx, "x")
	assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)

	err = limiter.Clear(ctx, "x")
	assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)

	assert.Less(t, time.Since(start), 5*time.Second)

	t.Run("from config", func(t *testing.T) {
		cfg := ratelimiter.DefaultConfig()
		cfg.StoreTimeout = 10 * time.Millisecond

		limiter, err := ratelimiter.NewFromConfig(cfg, stalledStore{}, "5 per minute")
		require.NoError(t, err)

		_, err = limiter.Hit(ctx, "x")
		assert.ErrorIs(t, err, ratelimiter.ErrStorageUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSlidingWindow_RedisKeys(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter, err := ratelimiter.New(ratelimiter.NewRedisStore(client), "2 per 60 seconds; 10 per hour",
		ratelimiter.WithKeyPrefix("armonaut"),
		ratelimiter.WithIdentifiers("global"),
	)
	require.NoError(t, err)

	_, err = limiter.Hit(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"armonaut/global/2/60000",
		"armonaut/global/10/3600000",
	}, mr.Keys())

	ttl := mr.TTL("armonaut/global/2/60000")
	assert.Equal(t, time.Minute, ttl)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := ratelimiter.New(nil, "1 per second")
	assert.ErrorIs(t, err, ratelimiter.ErrNilStore)

	_, err = ratelimiter.New(ratelimiter.NewMemoryStore(), "often")
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidLimit)

	_, err = ratelimiter.NewWithWindows(ratelimiter.NewMemoryStore(), nil)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

	_, err = ratelimiter.NewWithWindows(ratelimiter.NewMemoryStore(), []ratelimiter.Window{{Max: 0, Duration: time.Second}})
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}

func TestMemoryStore_Stats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore()
	limiter, err := ratelimiter.New(store, "1 per minute")
	require.NoError(t, err)

	_, _ = limiter.Hit(ctx, "a")
	_, _ = limiter.Hit(ctx, "a")
	_, _ = limiter.Hit(ctx, "b")

	stats := store.Stats()
	assert.Equal(t, int64(2), stats.Accepted)
	assert.Equal(t, int64(1), stats.Rejected)
	assert.Equal(t, 2, stats.ActiveKeys)
}

func TestMemoryStore_ExpiredKeysAreDropped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := ratelimiter.NewMemoryStore()
	limiter, err := ratelimiter.New(store, "1 per second", ratelimiter.WithClock(clock.Now))
	require.NoError(t, err)

	_, err = limiter.Hit(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Stats().ActiveKeys)

	clock.At(2 * time.Second)
	ok, err := limiter.Test(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, store.Stats().ActiveKeys)
}
