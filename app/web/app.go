package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/armonaut/armonaut/core/auth"
	"github.com/armonaut/armonaut/core/cookie"
	"github.com/armonaut/armonaut/core/health"
	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/core/router"
	"github.com/armonaut/armonaut/core/server"
	"github.com/armonaut/armonaut/core/session"
	"github.com/armonaut/armonaut/core/sessiontransport"
	"github.com/armonaut/armonaut/integration/database/pg"
	"github.com/armonaut/armonaut/integration/database/redis"
	"github.com/armonaut/armonaut/middleware"
	"github.com/armonaut/armonaut/pkg/ratelimiter"
)

// App wires the stores, services and HTTP pipeline of the web process.
type App struct {
	config    Config
	logger    *slog.Logger
	redis     goredis.UniversalClient
	db        *pgxpool.Pool
	users     auth.Users
	auth      *auth.Service
	transport *sessiontransport.Cookie
	requests  ratelimiter.Limiter
	router    router.Router[*router.Context]
	server    *server.Server
	checks    health.Checks
	closers   []func()
}

// Option customises App construction.
type Option func(*App) error

// WithLogger replaces the logger built from configuration.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		a.logger = l
		return nil
	}
}

// WithRedis uses an existing client instead of connecting with Config.Redis.
func WithRedis(client goredis.UniversalClient) Option {
	return func(a *App) error {
		if client == nil {
			return errors.New("redis client cannot be nil")
		}
		a.redis = client
		return nil
	}
}

// WithUsers uses the given account repository instead of the database.
func WithUsers(users auth.Users) Option {
	return func(a *App) error {
		if users == nil {
			return errors.New("users cannot be nil")
		}
		a.users = users
		return nil
	}
}

// New connects the backing services and assembles the router and server.
// On error every connection opened so far is closed.
func New(ctx context.Context, cfg Config, opts ...Option) (_ *App, err error) {
	a := &App{
		config: cfg,
		checks: health.Checks{},
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.logger == nil {
		a.logger = logger.NewFromConfig(cfg.Log,
			logger.WithContextExtractors(middleware.RequestIDExtractor))
	}

	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := a.connect(ctx); err != nil {
		return nil, err
	}
	if err := a.build(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	if a.redis == nil {
		client, err := redis.Connect(ctx, a.config.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.redis = client
		a.closers = append(a.closers, func() { _ = client.Close() })
	}
	a.checks["redis"] = redis.Healthcheck(a.redis)

	if a.users != nil {
		return nil
	}

	if !a.config.DB.Enabled() {
		a.logger.Warn("PG_CONN_URL not set, accounts are kept in memory",
			logger.Component("app"))
		a.users = auth.NewMemoryUsers()
		return nil
	}

	pool, err := pg.Connect(ctx, a.config.DB)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	a.db = pool
	a.closers = append(a.closers, pool.Close)
	a.checks["postgres"] = pg.Healthcheck(pool)

	if err := pg.Migrate(ctx, pool, a.config.DB, a.logger); err != nil {
		return err
	}
	a.users = auth.NewPGUsers(pool)
	return nil
}

func (a *App) build() error {
	cookies, err := cookie.NewFromConfig(a.config.Cookie)
	if err != nil {
		return fmt.Errorf("cookie manager: %w", err)
	}

	store := session.NewRedisStoreFromConfig(a.config.SessionStore, a.redis)
	a.transport, err = sessiontransport.NewCookieFromConfig(a.config.Session, store, cookies,
		sessiontransport.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("session transport: %w", err)
	}

	limits := ratelimiter.NewRedisStore(a.redis)
	a.auth, err = auth.NewFromConfig(a.config.Auth, a.config.RateLimit, limits, a.users, a.logger)
	if err != nil {
		return err
	}

	a.requests, err = ratelimiter.NewFromConfig(a.config.RateLimit, limits, a.config.RequestLimit,
		ratelimiter.WithIdentifiers("requests"), ratelimiter.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("request limiter: %w", err)
	}

	a.router = a.routes()

	a.server, err = server.NewFromConfig(a.config.Server, server.WithLogger(a.logger))
	if err != nil {
		return err
	}
	return nil
}

// Handler returns the HTTP handler of the application.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(ctx, a.router))
	return g.Wait()
}

// Close releases every connection opened by New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
