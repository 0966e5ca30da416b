package cookie

import (
	"net/http"
	"strings"
)

// Config provides environment-based configuration for cookie manager.
type Config struct {
	Secrets  string        `env:"COOKIE_SECRETS" envDefault:""`
	Salt     string        `env:"COOKIE_SALT" envDefault:"armonaut.cookie"`
	Path     string        `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"COOKIE_DOMAIN" envDefault:""`
	MaxAge   int           `env:"COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool          `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"` // SameSiteLaxMode
	MaxSize  int           `env:"COOKIE_MAX_SIZE" envDefault:"4096"`
}

// DefaultConfig returns a Config with secure defaults.
func DefaultConfig() Config {
	return Config{
		Salt:     DefaultSalt,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxSize:  MaxCookieSize,
	}
}

// parseSecrets splits comma-separated secrets for key rotation support.
// Empty strings are filtered out.
func (c Config) parseSecrets() []string {
	if c.Secrets == "" {
		return nil
	}

	parts := strings.Split(c.Secrets, ",")
	secrets := make([]string, 0, len(parts))

	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s != "" {
			secrets = append(secrets, s)
		}
	}

	return secrets
}

// NewFromConfig creates a Manager from configuration.
// Only non-zero config values override defaults to preserve secure settings.
func NewFromConfig(cfg Config, opts ...ManagerOption) (*Manager, error) {
	cookieOpts := make([]Option, 0, 6)

	if cfg.Path != "" {
		cookieOpts = append(cookieOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		cookieOpts = append(cookieOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		cookieOpts = append(cookieOpts, WithMaxAge(cfg.MaxAge))
	}
	if cfg.Secure {
		cookieOpts = append(cookieOpts, WithSecure(cfg.Secure))
	}
	if cfg.HttpOnly {
		cookieOpts = append(cookieOpts, WithHTTPOnly(cfg.HttpOnly))
	}
	if cfg.SameSite != 0 {
		cookieOpts = append(cookieOpts, WithSameSite(cfg.SameSite))
	}

	managerOpts := []ManagerOption{WithSalt(cfg.Salt), WithMaxSize(cfg.MaxSize)}
	managerOpts = append(managerOpts, opts...)

	return NewWithOptions(cfg.parseSecrets(), cookieOpts, managerOpts...)
}
