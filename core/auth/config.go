package auth

import (
	"fmt"
	"log/slog"

	"github.com/armonaut/armonaut/pkg/ratelimiter"
)

// Config holds the login throttling limits.
type Config struct {
	GlobalLoginLimit string `env:"RATELIMIT_GLOBAL_LOGIN" envDefault:"1000 per 5 minutes"`
	UserLoginLimit   string `env:"RATELIMIT_USER_LOGIN" envDefault:"10 per 5 minutes"`
}

// DefaultConfig returns the default login limits.
func DefaultConfig() Config {
	return Config{
		GlobalLoginLimit: "1000 per 5 minutes",
		UserLoginLimit:   "10 per 5 minutes",
	}
}

// NewFromConfig builds both login limiters over store and returns a Service.
func NewFromConfig(cfg Config, rl ratelimiter.Config, store ratelimiter.Store, users Users, log *slog.Logger, opts ...Option) (*Service, error) {
	limiterOpts := []ratelimiter.Option{ratelimiter.WithLogger(log)}

	global, err := ratelimiter.NewFromConfig(rl, store, cfg.GlobalLoginLimit,
		append(limiterOpts, ratelimiter.WithIdentifiers("login", "global"))...)
	if err != nil {
		return nil, fmt.Errorf("global login limiter: %w", err)
	}

	perUser, err := ratelimiter.NewFromConfig(rl, store, cfg.UserLoginLimit,
		append(limiterOpts, ratelimiter.WithIdentifiers("login", "user"))...)
	if err != nil {
		return nil, fmt.Errorf("user login limiter: %w", err)
	}

	return NewService(users, global, perUser, append([]Option{WithLogger(log)}, opts...)...)
}
