package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/armonaut/armonaut/integration/database/pg"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGUsers stores accounts in the users table created by the pg migrations.
// Calls join the transaction carried by the context, if any.
type PGUsers struct {
	db querier
}

// NewPGUsers wraps a pool or any other pgx querier.
func NewPGUsers(db querier) *PGUsers {
	return &PGUsers{db: db}
}

func (u *PGUsers) conn(ctx context.Context) querier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return u.db
}

// FindByEmail implements Users. Emails compare case-insensitively.
func (u *PGUsers) FindByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT id, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)`

	var user User
	err := u.conn(ctx).QueryRow(ctx, q, strings.TrimSpace(email)).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return User{}, ErrUserNotFound
		}
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// UpdatePasswordHash implements Users.
func (u *PGUsers) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

	tag, err := u.conn(ctx).Exec(ctx, q, userID, hash)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Create registers a new account and returns it with a generated id.
func (u *PGUsers) Create(ctx context.Context, email, password string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	const q = `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3) RETURNING created_at`

	user := User{
		ID:           uuid.NewString(),
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
	}
	err = u.conn(ctx).QueryRow(ctx, q, user.ID, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}
