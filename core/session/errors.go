package session

import "errors"

var (
	// ErrInvalidUsage is the panic value of every operation on an Invalid session.
	ErrInvalidUsage = errors.New("session used without being enabled on this route")
	// ErrNotFound is returned when a session cannot be found in the store.
	ErrNotFound = errors.New("session not found")
	// ErrStorageUnavailable wraps failures of the durable store.
	ErrStorageUnavailable = errors.New("session storage unavailable")
	// ErrDecode is returned when a stored payload cannot be decoded.
	ErrDecode = errors.New("failed to decode session payload")
	// ErrEncode is returned when session data cannot be serialized.
	ErrEncode = errors.New("failed to encode session payload")
)
