package router

import (
	"log/slog"
	"net/http"

	"github.com/armonaut/armonaut/core/handler"
)

// Router registers handlers on top of http.ServeMux patterns.
//
// Method helpers register "METHOD /pattern" routes; a path registered for
// some methods answers 405 with an Allow header for the others. Middleware
// added with Use wraps every route of the router, With and Group return
// inline routers whose middleware wraps only their own routes.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])

	// Handle matches any method.
	Handle(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]

	Group(fn func(r Router[C])) Router[C]
	Route(pattern string, fn func(r Router[C])) Router[C]
	Mount(pattern string, sub http.Handler)
}

// Routes lists registered routes.
type Routes interface {
	Routes() []Route
}

// Route is one registration. Method is "*" for routes matching any method.
type Route struct {
	Method  string
	Pattern string
}

// New returns a root router. Without WithContextFactory, C must be
// *Context.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}

// Option configures a root router.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler renders errors returned by handlers and middleware.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithMiddleware is Use at construction time.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.middlewares = append(m.middlewares, middlewares...)
	}
}

// WithContextFactory builds the per-request context for a custom C.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request) C) Option[C] {
	return func(m *mux[C]) {
		m.newContext = f
	}
}

// WithLogger receives rendering failures that happen after the header was sent.
func WithLogger[C handler.Context](l *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if l != nil {
			m.logger = l
		}
	}
}
