package response

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/armonaut/armonaut/core/handler"
)

// statusCode is an interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// convertToHTTPError converts any error to an HTTPError
func convertToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &sc):
		status = sc.StatusCode()
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	}

	baseErr, ok := httpErrorsByStatus[status]
	if !ok {
		baseErr = newHTTPError(status, "error")
		if http.StatusText(status) == "" {
			baseErr = ErrInternalServerError
		}
	}

	return baseErr.WithError(err)
}

// alreadyWritten reports whether the response header was sent already.
func alreadyWritten(w http.ResponseWriter) bool {
	ww, ok := w.(interface{ Written() bool })
	return ok && ww.Written()
}

// writeRetryAfter sets Retry-After in whole seconds, rounded up.
func writeRetryAfter(w http.ResponseWriter, e HTTPError) {
	if e.RetryAfter > 0 {
		secs := int64(math.Ceil(e.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	}
}

// ErrorHandler is the default error handler that returns plain text errors.
// It checks for HTTPError type first, then statusCode interface, and defaults to 500.
func ErrorHandler[C handler.Context](ctx C, err error) {
	if alreadyWritten(ctx.ResponseWriter()) {
		return
	}
	httpErr := convertToHTTPError(err)
	writeRetryAfter(ctx.ResponseWriter(), httpErr)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler returns errors as JSON responses.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	if alreadyWritten(ctx.ResponseWriter()) {
		return
	}
	httpErr := convertToHTTPError(err)
	writeRetryAfter(ctx.ResponseWriter(), httpErr)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
