package web

import (
	"github.com/armonaut/armonaut/core/auth"
	"github.com/armonaut/armonaut/core/cookie"
	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/core/server"
	"github.com/armonaut/armonaut/core/session"
	"github.com/armonaut/armonaut/core/sessiontransport"
	"github.com/armonaut/armonaut/integration/database/pg"
	"github.com/armonaut/armonaut/integration/database/redis"
	"github.com/armonaut/armonaut/pkg/ratelimiter"
)

// Config aggregates the configuration of every component of the web process.
type Config struct {
	Log          logger.Config
	Server       server.Config
	Cookie       cookie.Config
	SessionStore session.Config
	Session      sessiontransport.CookieConfig
	Redis        redis.Config
	DB           pg.Config
	RateLimit    ratelimiter.Config
	Auth         auth.Config

	// RequestLimit caps requests per client IP across the whole site.
	RequestLimit string `env:"RATELIMIT_REQUESTS" envDefault:"600 per 1 minute"`
	RequireHTTPS bool   `env:"REQUIRE_HTTPS" envDefault:"false"`
	// PreventHTTPCache disables Cache-Control headers on cacheable routes.
	PreventHTTPCache bool `env:"PREVENT_HTTP_CACHE" envDefault:"false"`
}
