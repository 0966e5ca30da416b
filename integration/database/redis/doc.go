// Package redis connects to Redis with retry and exposes a health check.
//
// Connect parses a redis:// URL, pings the server with exponential backoff
// between attempts and returns a ready go-redis client. The same client backs
// the session store and the rate limiter store.
//
//	client, err := redis.Connect(ctx, redis.Config{
//		ConnectionURL: "redis://localhost:6379/0",
//		RetryAttempts: 3,
//		RetryInterval: 5 * time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Configuration is read from REDIS_URL, REDIS_RETRY_ATTEMPTS,
// REDIS_RETRY_INTERVAL and REDIS_CONNECT_TIMEOUT.
//
// Healthcheck wraps a ping failure with ErrHealthcheckFailed.
package redis
