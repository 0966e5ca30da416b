package ratelimiter

import "time"

// Config provides environment-based configuration shared by all limiters of a process.
type Config struct {
	// Enabled switches between real limiters and Dummy.
	Enabled   bool   `env:"RATELIMIT_ENABLED" envDefault:"true"`
	KeyPrefix string `env:"RATELIMIT_KEY_PREFIX" envDefault:"ratelimit"`

	// StoreTimeout bounds every store call made by a limiter.
	StoreTimeout time.Duration `env:"RATELIMIT_STORE_TIMEOUT" envDefault:"1s"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		KeyPrefix:    defaultKeyPrefix,
		StoreTimeout: DefaultTimeout,
	}
}

// NewFromConfig builds a Limiter for the given limit string.
// When rate limiting is disabled it returns Dummy and store may be nil.
func NewFromConfig(cfg Config, store Store, limits string, opts ...Option) (Limiter, error) {
	if !cfg.Enabled {
		return Dummy{}, nil
	}

	configOpts := make([]Option, 0, len(opts)+2)
	configOpts = append(configOpts, WithKeyPrefix(cfg.KeyPrefix), WithTimeout(cfg.StoreTimeout))
	configOpts = append(configOpts, opts...)

	return New(store, limits, configOpts...)
}
