package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/armonaut/armonaut/core/logger"
	"github.com/armonaut/armonaut/core/session"
	"github.com/armonaut/armonaut/pkg/ratelimiter"
)

// Service checks passwords and binds authenticated users to sessions.
//
// Failed attempts are counted by two limiters: global counts every failure
// across the process and user counts failures per account. A login is refused
// before the password is checked when either limiter is exhausted.
type Service struct {
	users   Users
	global  ratelimiter.Limiter
	perUser ratelimiter.Limiter
	params  Params
	logger  *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// Option configures a Service.
type Option func(*Service)

// WithParams sets the Argon2id parameters for new and upgraded hashes.
func WithParams(p Params) Option {
	return func(s *Service) {
		s.params = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service. global and perUser may be ratelimiter.Dummy
// to disable throttling.
func NewService(users Users, global, perUser ratelimiter.Limiter, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, ErrNilUsers
	}
	if global == nil || perUser == nil {
		return nil, ErrNilLimiter
	}

	s := &Service{
		users:   users,
		global:  global,
		perUser: perUser,
		params:  DefaultParams,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckPassword returns the user owning email if password matches.
//
// A missing account and a wrong password both yield ErrInvalidCredentials.
// A throttled attempt yields a *ThrottledError. Limiter storage failures are
// returned wrapped in ratelimiter.ErrStorageUnavailable.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)

	if err := s.allowed(ctx, s.global); err != nil {
		return User{}, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return User{}, fmt.Errorf("find user: %w", err)
		}
		// Spend the same work as a real check so timing does not reveal
		// whether the account exists.
		_, _, _ = VerifyPassword(password, s.dummy(), s.params)
		return User{}, s.failed(ctx, "")
	}

	if err := s.allowed(ctx, s.perUser, user.ID); err != nil {
		return User{}, err
	}

	match, needsRehash, err := VerifyPassword(password, user.PasswordHash, s.params)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored password hash is unreadable",
			logger.Component("auth"), logger.UserID(user.ID), logger.Error(err))
		return User{}, s.failed(ctx, user.ID)
	}
	if !match {
		return User{}, s.failed(ctx, user.ID)
	}

	if needsRehash {
		s.rehash(ctx, user.ID, password)
	}

	return user, nil
}

// Authenticate resolves the user id for HTTP Basic credentials. It runs
// through CheckPassword, so the same limiters and errors apply.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.CheckPassword(ctx, email, password)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// Login binds user to sess, rotating its identifier and CSRF token.
func (s *Service) Login(sess *session.Session, user User) {
	session.Authenticate(sess, user.ID)
}

// Logout drops the session contents and identifier.
func (s *Service) Logout(sess *session.Session) {
	session.Logout(sess)
}

// allowed tests l without recording a hit.
func (s *Service) allowed(ctx context.Context, l ratelimiter.Limiter, identifiers ...string) error {
	ok, err := l.Test(ctx, identifiers...)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	wait, _, err := l.TimeUntilReset(ctx, identifiers...)
	if err != nil {
		return err
	}

	s.logger.WarnContext(ctx, "login throttled",
		logger.Component("auth"), logger.RetryAfter(wait))
	return &ThrottledError{RetryAfter: wait}
}

// failed records a failed attempt against both limiters.
func (s *Service) failed(ctx context.Context, userID string) error {
	if userID != "" {
		if _, err := s.perUser.Hit(ctx, userID); err != nil {
			return err
		}
	}
	if _, err := s.global.Hit(ctx); err != nil {
		return err
	}
	return ErrInvalidCredentials
}

func (s *Service) rehash(ctx context.Context, userID, password string) {
	hash, err := HashPasswordWithParams(password, s.params)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "password rehash failed",
			logger.Component("auth"), logger.UserID(userID), logger.Error(err))
		return
	}
	s.logger.InfoContext(ctx, "password hash upgraded",
		logger.Component("auth"), logger.UserID(userID))
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = HashPasswordWithParams(time.Now().String(), s.params)
	})
	return s.dummyHash
}
