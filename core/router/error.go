package router

import (
	"errors"
	"net/http"

	"github.com/armonaut/armonaut/core/handler"
)

// routeError is a routing failure that carries its HTTP status.
type routeError struct {
	msg    string
	status int
}

func (e *routeError) Error() string   { return e.msg }
func (e *routeError) StatusCode() int { return e.status }

var (
	// Mux errors
	ErrNoContextFactory = &routeError{"no context factory provided", http.StatusInternalServerError}
	ErrMethodNotAllowed = &routeError{"method not allowed", http.StatusMethodNotAllowed}
	ErrNotFound         = &routeError{"not found", http.StatusNotFound}
	ErrNilResponse      = &routeError{"nil response", http.StatusInternalServerError}
	ErrInvalidMethod    = &routeError{"invalid http method", http.StatusInternalServerError}
	ErrNilRouter        = &routeError{"nil router", http.StatusInternalServerError}
	ErrNilSubrouter     = &routeError{"nil subrouter", http.StatusInternalServerError}
	ErrInvalidPattern   = &routeError{"invalid route path pattern", http.StatusInternalServerError}
)

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler provides default error handling.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	http.Error(w, err.Error(), status)
}
