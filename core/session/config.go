package session

import "github.com/redis/go-redis/v9"

// Config holds durable store configuration.
type Config struct {
	// KeyPrefix namespaces session entries in a shared store.
	KeyPrefix string `env:"SESSION_KEY_PREFIX" envDefault:"armonaut/session/data/"`
}

// defaultConfig returns default configuration.
func defaultConfig() *Config {
	return &Config{
		KeyPrefix: "armonaut/session/data/",
	}
}

// Option is a functional option for configuring a session store.
type Option func(*Config)

// WithKeyPrefix sets the key prefix of stored sessions.
func WithKeyPrefix(prefix string) Option {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

// NewRedisStoreFromConfig creates a RedisStore from configuration.
func NewRedisStoreFromConfig(cfg Config, client redis.UniversalClient) *RedisStore {
	if cfg.KeyPrefix == "" {
		return NewRedisStore(client)
	}
	return NewRedisStore(client, WithKeyPrefix(cfg.KeyPrefix))
}
