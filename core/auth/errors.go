package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrTooManyFailedLogins = errors.New("too many failed login attempts")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidHash         = errors.New("invalid password hash")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrNilUsers            = errors.New("users repository is required")
	ErrNilLimiter          = errors.New("login limiter is required")
)

// ThrottledError reports a refused login and how long the caller should wait.
// It matches ErrTooManyFailedLogins with errors.Is.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	if e.RetryAfter <= 0 {
		return ErrTooManyFailedLogins.Error()
	}
	return fmt.Sprintf("%s, retry in %s", ErrTooManyFailedLogins, e.RetryAfter.Round(time.Second))
}

func (e *ThrottledError) Unwrap() error {
	return ErrTooManyFailedLogins
}
