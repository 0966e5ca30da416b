package middleware

import (
	"fmt"
	"net/http"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/response"
)

const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// BodyLimitConfig configures the body limit middleware.
type BodyLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// MaxSize in bytes (default: 1MB)
	MaxSize int64
}

// BodyLimit caps request bodies at maxSize bytes.
func BodyLimit[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig creates a body limit middleware with custom configuration.
//
// A declared Content-Length over the limit is refused with 413 up front.
// Otherwise the body is wrapped in http.MaxBytesReader, and reads past the
// limit fail with *http.MaxBytesError, which the error handlers render as 413.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = MB
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()

			if n := req.ContentLength; n > cfg.MaxSize {
				return response.Error(response.ErrRequestTooLarge.
					WithMessage(fmt.Sprintf("Request body too large. Maximum allowed: %d bytes", cfg.MaxSize)).
					WithDetails(map[string]any{"limit": cfg.MaxSize, "size": n}))
			}

			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, cfg.MaxSize)
			}

			return next(ctx)
		}
	}
}
