package auth

import (
	"context"
	"time"
)

// User is the subset of an account the login flow needs.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Users looks up accounts for the login flow.
// FindByEmail returns ErrUserNotFound when no account matches.
type Users interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}
