package ratelimiter

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/armonaut/armonaut/pkg/token"
)

// acquireScript trims, counts and conditionally records in one round trip.
// Redis runs scripts atomically, so concurrent processes never over-admit.
//
// KEYS[1] - sorted set of hit timestamps (ms)
// ARGV[1] - now (ms), ARGV[2] - expiry cutoff (ms), ARGV[3] - window (ms),
// ARGV[4] - max, ARGV[5] - unique member
var acquireScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[2])
if redis.call('ZCARD', KEYS[1]) < tonumber(ARGV[4]) then
	redis.call('ZADD', KEYS[1], ARGV[1], ARGV[5])
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
	return 1
end
return 0
`)

// RedisStore implements Store on Redis sorted sets, one set per key and window.
// Timestamps come from the caller's clock so every process must keep roughly
// synchronized time.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a store backed by the given Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Acquire implements Store.
func (s *RedisStore) Acquire(ctx context.Context, key string, window Window, now time.Time) (bool, error) {
	nowMs := strconv.FormatInt(now.UnixMilli(), 10)
	cutoff := strconv.FormatInt(now.Add(-window.Duration).UnixMilli(), 10)
	member := nowMs + ":" + token.Generate()[:16]

	res, err := acquireScript.Run(ctx, s.client, []string{key},
		nowMs, cutoff, strconv.FormatInt(window.Duration.Milliseconds(), 10), strconv.Itoa(window.Max), member,
	).Int()
	if err != nil {
		return false, err
	}

	return res == 1, nil
}

// Peek implements Store.
func (s *RedisStore) Peek(ctx context.Context, key string, window Window, now time.Time) (int, time.Time, error) {
	floor := "(" + strconv.FormatInt(now.Add(-window.Duration).UnixMilli(), 10)

	var (
		count  *redis.IntCmd
		oldest *redis.ZSliceCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.ZCount(ctx, key, floor, "+inf")
		oldest = pipe.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
			Min:   floor,
			Max:   "+inf",
			Count: 1,
		})
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	n := int(count.Val())
	if n == 0 || len(oldest.Val()) == 0 {
		return 0, time.Time{}, nil
	}

	return n, time.UnixMilli(int64(oldest.Val()[0].Score)), nil
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
