package router

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/armonaut/armonaut/core/handler"
)

// methods a route can be registered for, in Allow header order.
var methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodConnect,
	http.MethodTrace,
}

// endpoint holds the handlers registered for one path pattern.
type endpoint[C handler.Context] struct {
	byMethod map[string]handler.HandlerFunc[C]
	any      handler.HandlerFunc[C]
}

func (e *endpoint[C]) lookup(method string) handler.HandlerFunc[C] {
	if fn, ok := e.byMethod[method]; ok {
		return fn
	}
	if method == http.MethodHead {
		if fn, ok := e.byMethod[http.MethodGet]; ok {
			return fn
		}
	}
	return e.any
}

func (e *endpoint[C]) allow() string {
	allowed := make([]string, 0, len(e.byMethod)+1)
	for _, mt := range methods {
		if _, ok := e.byMethod[mt]; ok {
			allowed = append(allowed, mt)
		}
	}
	if _, ok := e.byMethod[http.MethodGet]; ok && !slices.Contains(allowed, http.MethodHead) {
		allowed = append(allowed, http.MethodHead)
	}
	return strings.Join(allowed, ", ")
}

// routes is the registration state shared by a router and its inline groups.
type routes[C handler.Context] struct {
	serveMux  *http.ServeMux
	endpoints map[string]*endpoint[C]
	list      []Route
}

// mux is the private implementation of Router interface. Matching and path
// wildcards are delegated to http.ServeMux; method dispatch, middleware and
// error handling happen here.
type mux[C handler.Context] struct {
	routes       *routes[C]
	middlewares  []handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request) C
	logger       *slog.Logger
	parent       *mux[C] // for inline groups
	inline       bool
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		routes: &routes[C]{
			serveMux:  http.NewServeMux(),
			endpoints: make(map[string]*endpoint[C]),
		},
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request) C {
			// Only the default *Context works without a factory.
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler interface.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	if _, pattern := m.routes.serveMux.Handler(r); pattern == "" {
		m.errorHandler(m.newContext(ww, r), ErrNotFound)
		return
	}

	m.routes.serveMux.ServeHTTP(ww, r)
}

// dispatch returns the http.Handler registered with ServeMux for one pattern.
func (m *mux[C]) dispatch(ep *endpoint[C]) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := m.newContext(w, r)

		fn := ep.lookup(r.Method)
		if fn == nil {
			w.Header().Set("Allow", ep.allow())
			m.errorHandler(ctx, ErrMethodNotAllowed)
			return
		}

		if len(m.middlewares) > 0 {
			fn = chain(m.middlewares, fn)
		}

		response := fn(ctx)
		if response == nil {
			m.errorHandler(ctx, ErrNilResponse)
			return
		}

		if err := response(w, ctx.Request()); err != nil {
			m.logger.DebugContext(ctx, "response rendering failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			m.errorHandler(ctx, err)
		}
	})
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodHead, pattern, h)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodOptions, pattern, h)
}

// Handle registers a handler for all HTTP methods.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle("", pattern, h)
}

// Method registers a handler for one or more specific HTTP methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methodNames ...string) {
	if len(methodNames) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	seen := make(map[string]bool, len(methodNames))
	for _, method := range methodNames {
		method = strings.ToUpper(method)
		if !slices.Contains(methods, method) {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, method))
		}
		if seen[method] {
			continue
		}
		seen[method] = true
		m.handle(method, pattern, h)
	}
}

// Use appends middleware to the router.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if !m.inline && len(m.routes.list) > 0 {
		panic("router: all middlewares must be defined before routes on a mux")
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With creates a new inline router with additional middleware.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	// Only the additional middlewares are stored; they are chained at registration time.
	return &mux[C]{
		inline:       true,
		parent:       m,
		routes:       m.routes,
		middlewares:  slices.Clone(middlewares),
		errorHandler: m.errorHandler,
		newContext:   m.newContext,
		logger:       m.logger,
	}
}

// Group creates a new inline router for grouping routes.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Route creates a new sub-router mounted at the given pattern.
func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, pattern))
	}

	sub := newMux[C]()
	sub.errorHandler = m.errorHandler
	sub.newContext = m.newContext
	sub.logger = m.logger
	sub.middlewares = slices.Clone(m.root().middlewares)

	fn(sub)
	m.Mount(pattern, sub)
	return sub
}

// Mount attaches a handler below the given prefix. The prefix is stripped
// from the request path before the handler sees it.
func (m *mux[C]) Mount(pattern string, sub http.Handler) {
	if sub == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilRouter, pattern))
	}
	if pattern == "" || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	prefix := strings.TrimSuffix(pattern, "/")
	m.routes.serveMux.Handle(prefix+"/", http.StripPrefix(prefix, sub))
	m.routes.list = append(m.routes.list, Route{Method: "*", Pattern: prefix + "/"})
}

// Routes returns all registered routes.
func (m *mux[C]) Routes() []Route {
	return slices.Clone(m.routes.list)
}

func (m *mux[C]) root() *mux[C] {
	curr := m
	for curr.inline {
		curr = curr.parent
	}
	return curr
}

// handle registers fn for method ("" meaning any method) under pattern.
func (m *mux[C]) handle(method, pattern string, fn handler.HandlerFunc[C]) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Errorf("%w: '%s'", ErrInvalidPattern, pattern))
	}

	// Inline routers wrap the handler with every middleware up to the root.
	if m.inline {
		var all []handler.Middleware[C]
		for curr := m; curr != nil && curr.inline; curr = curr.parent {
			all = append(slices.Clone(curr.middlewares), all...)
		}
		if len(all) > 0 {
			fn = chain(all, fn)
		}
	}

	ep, ok := m.routes.endpoints[pattern]
	if !ok {
		ep = &endpoint[C]{byMethod: make(map[string]handler.HandlerFunc[C])}
		m.routes.endpoints[pattern] = ep
		m.routes.serveMux.Handle(pattern, m.root().dispatch(ep))
	}

	if method == "" {
		ep.any = fn
		method = "*"
	} else {
		ep.byMethod[method] = fn
	}
	m.routes.list = append(m.routes.list, Route{Method: method, Pattern: pattern})
}

// chain applies middlewares so that the first one is the outermost.
func chain[C handler.Context](middlewares []handler.Middleware[C], fn handler.HandlerFunc[C]) handler.HandlerFunc[C] {
	for i := len(middlewares) - 1; i >= 0; i-- {
		fn = middlewares[i](fn)
	}
	return fn
}
