package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armonaut/armonaut/core/session"
)

func TestStores(t *testing.T) {
	t.Parallel()

	factories := map[string]func(t *testing.T) session.Store{
		"memory": func(t *testing.T) session.Store {
			return session.NewMemoryStore()
		},
		"redis": func(t *testing.T) session.Store {
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			t.Cleanup(func() { _ = client.Close() })
			return session.NewRedisStore(client)
		},
	}

	for name, newStore := range factories {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := newStore(t)

			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, session.ErrNotFound)

			require.NoError(t, store.Set(ctx, "id", []byte("payload"), time.Hour))

			got, err := store.Get(ctx, "id")
			require.NoError(t, err)
			assert.Equal(t, []byte("payload"), got)

			require.NoError(t, store.Set(ctx, "id", []byte("replaced"), time.Hour))
			got, err = store.Get(ctx, "id")
			require.NoError(t, err)
			assert.Equal(t, []byte("replaced"), got)

			require.NoError(t, store.Delete(ctx, "id"))
			require.NoError(t, store.Delete(ctx, "id"), "deleting twice is fine")

			_, err = store.Get(ctx, "id")
			assert.ErrorIs(t, err, session.ErrNotFound)
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Unix(1000, 0)
	store := session.NewMemoryStore(session.WithMemoryClock(func() time.Time { return now }))

	require.NoError(t, store.Set(ctx, "id", []byte("x"), time.Minute))

	now = now.Add(59 * time.Second)
	_, err := store.Get(ctx, "id")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, "id")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	t.Run("key prefix and ttl", func(t *testing.T) {
		ctx := context.Background()
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		store := session.NewRedisStore(client)
		require.NoError(t, store.Set(ctx, "abc", []byte("x"), 12*time.Hour))

		assert.True(t, mr.Exists("armonaut/session/data/abc"))
		assert.Equal(t, 12*time.Hour, mr.TTL("armonaut/session/data/abc"))

		mr.FastForward(12 * time.Hour)
		_, err := store.Get(ctx, "abc")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("custom prefix from config", func(t *testing.T) {
		ctx := context.Background()
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		store := session.NewRedisStoreFromConfig(session.Config{KeyPrefix: "sess:"}, client)
		require.NoError(t, store.Set(ctx, "abc", []byte("x"), time.Hour))
		assert.True(t, mr.Exists("sess:abc"))
	})

	t.Run("outage is reported", func(t *testing.T) {
		ctx := context.Background()
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		t.Cleanup(func() { _ = client.Close() })

		store := session.NewRedisStore(client)
		mr.Close()

		_, err := store.Get(ctx, "abc")
		assert.ErrorIs(t, err, session.ErrStorageUnavailable)
		assert.NotErrorIs(t, err, session.ErrNotFound)

		assert.ErrorIs(t, store.Set(ctx, "abc", []byte("x"), time.Hour), session.ErrStorageUnavailable)
		assert.ErrorIs(t, store.Delete(ctx, "abc"), session.ErrStorageUnavailable)
	})
}
