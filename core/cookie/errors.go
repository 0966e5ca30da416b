package cookie

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSecret indicates no secret was provided for cookie signing.
	ErrNoSecret = errors.New("no secret provided for cookie manager")

	// ErrSecretTooShort indicates the secret doesn't meet minimum length requirements.
	ErrSecretTooShort = errors.New("secret must be at least 32 characters long")

	// ErrInvalidSignature indicates cookie signature verification failed,
	// suggesting tampering or a retired secret.
	ErrInvalidSignature = errors.New("cookie signature verification failed")

	// ErrExpired indicates a correctly signed cookie is older than the allowed age.
	ErrExpired = errors.New("signed cookie expired")

	// ErrCookieNotFound indicates the requested cookie doesn't exist in the request.
	ErrCookieNotFound = errors.New("cookie not found in request")

	// ErrInvalidFormat indicates the cookie value has unexpected format.
	ErrInvalidFormat = errors.New("invalid cookie format")

	// ErrTooLarge matches every *TooLargeError.
	ErrTooLarge = errors.New("cookie too large")
)

// TooLargeError reports a cookie whose Set-Cookie header exceeds the
// manager's limit. It matches ErrTooLarge.
type TooLargeError struct {
	Name string
	Size int
	Max  int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("cookie %q is %d bytes, limit is %d", e.Name, e.Size, e.Max)
}

func (e *TooLargeError) Unwrap() error { return ErrTooLarge }
