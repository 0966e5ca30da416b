package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default handler.Context implementation.
// Values set with SetValue are stored on the request context, so they are
// visible to the response renderer and to plain http.Handler code downstream.
type Context struct {
	w http.ResponseWriter
	r *http.Request
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{w: w, r: r}
}

// NewContext creates a Context for w and r. Useful in tests and custom factories.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return newContext(w, r)
}

// Request returns the current request.
func (c *Context) Request() *http.Request { return c.r }

// ResponseWriter returns the response writer.
func (c *Context) ResponseWriter() http.ResponseWriter { return c.w }

// Param returns the value of a path wildcard, e.g. "id" for "/users/{id}".
func (c *Context) Param(key string) string { return c.r.PathValue(key) }

// SetValue stores val under key on the request context.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// Deadline implements context.Context.
func (c *Context) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }

// Done implements context.Context.
func (c *Context) Done() <-chan struct{} { return c.r.Context().Done() }

// Err implements context.Context.
func (c *Context) Err() error { return c.r.Context().Err() }

// Value implements context.Context.
func (c *Context) Value(key any) any { return c.r.Context().Value(key) }
