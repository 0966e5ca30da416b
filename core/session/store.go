package session

import (
	"context"
	"time"
)

// Store is the durable key/value backend for serialized sessions.
// Implementations must be safe for concurrent use and expire entries on their own.
type Store interface {
	// Get returns the payload stored under id or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)
	// Set stores data under id for ttl.
	Set(ctx context.Context, id string, data []byte, ttl time.Duration) error
	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}
