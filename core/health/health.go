package health

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/armonaut/armonaut/core/handler"
	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/core/response"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Checks maps dependency names to their checks.
type Checks map[string]Check

// Liveness reports that the process is serving requests.
func Liveness[C handler.Context](C) handler.Response {
	return response.JSON(map[string]string{"status": "alive"})
}

// Readiness runs checks in name order and answers 503 on the first failure.
func Readiness[C handler.Context](log *slog.Logger, checks Checks) handler.HandlerFunc[C] {
	names := slices.Sorted(maps.Keys(checks))

	return func(ctx C) handler.Response {
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"), slog.String("dependency", name), logger.Error(err))
				return response.Error(response.ErrServiceUnavailable.WithMessage(name + " unavailable"))
			}
		}
		return response.JSON(map[string]string{"status": "ready"})
	}
}
