package middleware

import (
	"io"
	"log/slog"
	"strings"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/core/response"
	"github.com/armonaut/armonaut/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Limiter counts requests (required)
	Limiter ratelimiter.Limiter
	// KeyExtractor returns the identifiers a request is counted under (default: client IP)
	KeyExtractor func(ctx handler.Context) []string
	// FailOpen lets requests through when the limiter storage is down; otherwise they get 503
	FailOpen bool
	// Logger for storage failures and rejections (default: discard)
	Logger *slog.Logger
}

// RateLimit counts every request against limiter keyed by client IP.
func RateLimit[C handler.Context](limiter ratelimiter.Limiter) handler.Middleware[C] {
	return RateLimitWithConfig[C](RateLimitConfig{Limiter: limiter})
}

// RateLimitWithConfig creates a rate limiting middleware with custom configuration.
// Rejected requests get 429 with Retry-After set to the time until a slot frees.
func RateLimitWithConfig[C handler.Context](cfg RateLimitConfig) handler.Middleware[C] {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(ctx handler.Context) []string {
			return []string{clientIPOf(ctx)}
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			key := cfg.KeyExtractor(ctx)

			ok, err := cfg.Limiter.Hit(ctx, key...)
			if err != nil {
				cfg.Logger.ErrorContext(ctx, "rate limiter unavailable",
					logger.Component("ratelimit"), logger.Error(err))
				if cfg.FailOpen {
					return next(ctx)
				}
				return response.Error(response.ErrServiceUnavailable.WithError(err))
			}
			if ok {
				return next(ctx)
			}

			wait, _, err := cfg.Limiter.TimeUntilReset(ctx, key...)
			if err != nil {
				cfg.Logger.WarnContext(ctx, "rate limit reset unknown",
					logger.Component("ratelimit"), logger.Error(err))
			}

			cfg.Logger.InfoContext(ctx, "request rate limited",
				logger.Component("ratelimit"),
				logger.LimitKey(strings.Join(key, "/")),
				logger.RetryAfter(wait),
			)
			return response.Error(response.TooManyRequests(wait))
		}
	}
}
