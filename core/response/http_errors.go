package response

import (
	"net/http"
	"time"
)

// HTTPError represents a structured error response that implements the error interface.
type HTTPError struct {
	Status     int            `json:"-"`                 // HTTP status code (not in JSON)
	Code       string         `json:"code"`              // Machine-readable error code
	Message    string         `json:"message"`           // Human-readable message
	Details    map[string]any `json:"details,omitempty"` // Optional context
	RetryAfter time.Duration  `json:"-"`                 // Sent as Retry-After when positive
}

// NewHTTPError creates a new Error with a custom message and default internal server error status.
func NewHTTPError(message string) HTTPError {
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: message,
	}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status code for the error.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy of the error with an error cause.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

// WithRetryAfter returns a copy of the error that tells the client when to retry.
func (e HTTPError) WithRetryAfter(d time.Duration) HTTPError {
	e.RetryAfter = d
	return e
}

func newHTTPError(status int, code string) HTTPError {
	return HTTPError{Status: status, Code: code, Message: http.StatusText(status)}
}

// Predefined HTTP errors using http.StatusText for default messages.
var (
	ErrBadRequest          = newHTTPError(http.StatusBadRequest, "bad_request")
	ErrUnauthorized        = newHTTPError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = newHTTPError(http.StatusForbidden, "forbidden")
	ErrNotFound            = newHTTPError(http.StatusNotFound, "not_found")
	ErrMethodNotAllowed    = newHTTPError(http.StatusMethodNotAllowed, "method_not_allowed")
	ErrRequestTooLarge     = newHTTPError(http.StatusRequestEntityTooLarge, "request_too_large")
	ErrTooManyRequests     = newHTTPError(http.StatusTooManyRequests, "too_many_requests")
	ErrInternalServerError = newHTTPError(http.StatusInternalServerError, "internal_server_error")
	ErrServiceUnavailable  = newHTTPError(http.StatusServiceUnavailable, "service_unavailable")

	// ErrCSRFFailed rejects unsafe requests without a matching CSRF token.
	ErrCSRFFailed = ErrForbidden.WithMessage("CSRF verification failed.")
	// ErrHTTPSRequired rejects plain-HTTP requests on HTTPS-only deployments.
	ErrHTTPSRequired = ErrForbidden.WithMessage("SSL is required.")
)

var httpErrorsByStatus = map[int]HTTPError{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusUnauthorized:          ErrUnauthorized,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusRequestEntityTooLarge: ErrRequestTooLarge,
	http.StatusTooManyRequests:       ErrTooManyRequests,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
}

// TooManyRequests returns a 429 error carrying a Retry-After hint.
func TooManyRequests(retryAfter time.Duration) HTTPError {
	return ErrTooManyRequests.WithRetryAfter(retryAfter)
}
