// Package ratelimiter provides exact sliding-window rate limiting with pluggable storage backends.
//
// A limiter is configured with one or more windows, each a maximum number of hits
// within a trailing duration, usually parsed from a human readable string:
//
//	"10 per 5 minutes"
//	"1 per 5 minutes; 1000 per 1 day"
//	"5/minute, 100 per hour"
//
// An identifier is limited as soon as ANY of its windows is full. Unlike a
// fixed-bucket counter the window slides with the clock, so a client can never
// squeeze 2×max hits around a bucket boundary.
//
// # Core Types
//
// Limiter interface defines the contract for rate limiting:
//   - Hit(ctx, ids...): record one occurrence, report whether it was admitted
//   - Test(ctx, ids...): dry run, never consumes quota
//   - TimeUntilReset(ctx, ids...): shortest wait until a full window frees a slot
//   - Clear(ctx, ids...): administrative reset
//
// SlidingWindow implements Limiter on top of a Store. Dummy implements it
// without any I/O and is what NewFromConfig returns when limiting is disabled.
//
// Store owns atomicity. MemoryStore keeps per-key timestamp logs in process
// memory; RedisStore keeps one sorted set per key and window and records hits
// with a Lua script, so concurrent processes sharing one Redis never over-admit.
//
// # Usage
//
//	store := ratelimiter.NewRedisStore(redisClient)
//
//	userLogins, err := ratelimiter.New(store, "10 per 5 minutes",
//		ratelimiter.WithIdentifiers("login", "user"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ok, err := userLogins.Test(ctx, userID)
//	switch {
//	case errors.Is(err, ratelimiter.ErrStorageUnavailable):
//		// choose fail-open or fail-closed for this operation
//	case !ok:
//		wait, _, _ := userLogins.TimeUntilReset(ctx, userID)
//		return tooManyAttempts(wait)
//	}
//
// # Keys
//
// Storage keys are the key prefix, the static identifiers, the per-call
// identifiers and the window joined by "/":
//
//	ratelimit/login/user/42/10/300000
//
// Calling with no identifiers uses only the static part, which is how a single
// global limiter is expressed.
//
// # Semantics
//
// Hit attempts every window even after one refuses, and a full window does not
// record the refused hit. A hit at time ts counts toward a window while
// ts > now-duration, so waiting a full duration after the oldest counted hit
// always frees a slot. Expired entries are dropped lazily on access; there is
// no background sweeper.
//
// # Error Handling
//
// Every storage failure, including context deadlines, is returned wrapped in
// ErrStorageUnavailable. The limiter never silently admits or denies on error.
package ratelimiter
