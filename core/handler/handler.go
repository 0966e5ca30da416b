package handler

import (
	"context"
	"net/http"
)

// Context is the per-request value handed to handlers and middleware.
//
// It is a context.Context bound to the current request, so it can be passed
// directly to stores and limiters. SetValue replaces the request with one
// carrying the value; later calls to Request observe it.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}

// Response renders the outcome of a handler. It runs after every middleware
// has seen the handler's result; an error it returns goes to the router's
// ErrorHandler.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc handles a request with a concrete Context type.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler renders errors returned by a Response.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware decorates a HandlerFunc.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
