package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxCookieSize is the maximum size for a cookie (4KB).
	MaxCookieSize = 4096
	// minSecretLength keeps HMAC keys at least as long as the digest.
	minSecretLength = 32
	// DefaultSalt separates signatures made for cookies from other uses of the same secret.
	DefaultSalt = "armonaut.cookie"
)

// Manager handles HTTP cookie operations with timestamped signing and key rotation.
type Manager struct {
	secrets  []string
	defaults Options
	maxSize  int
	salt     string
	now      func() time.Time
}

// ManagerOption configures the Manager itself (not individual cookies).
type ManagerOption func(*Manager)

// WithMaxSize sets the maximum cookie size.
func WithMaxSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.maxSize = size
		}
	}
}

// WithSalt sets the signing salt.
func WithSalt(salt string) ManagerOption {
	return func(m *Manager) {
		if salt != "" {
			m.salt = salt
		}
	}
}

// WithClock replaces time.Now for signing timestamps and age checks.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a new cookie manager with the specified secrets and options.
// The first secret signs, every secret verifies.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	for i := range len(secrets) {
		if len(secrets[i]) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(secrets[i]), minSecretLength)
		}
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{
		secrets:  secrets,
		defaults: defaults.with(opts),
		maxSize:  MaxCookieSize,
		salt:     DefaultSalt,
		now:      time.Now,
	}, nil
}

// NewWithOptions creates a new cookie manager with additional manager options.
func NewWithOptions(secrets []string, cookieOpts []Option, managerOpts ...ManagerOption) (*Manager, error) {
	m, err := New(secrets, cookieOpts...)
	if err != nil {
		return nil, err
	}

	for _, opt := range managerOpts {
		opt(m)
	}

	return m, nil
}

// Set stores a plain cookie value.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	cookie := m.defaults.with(opts).cookie(name, value)

	if size := len(cookie.String()); size > m.maxSize {
		return &TooLargeError{Name: name, Size: size, Max: m.maxSize}
	}

	http.SetCookie(w, cookie)
	return nil
}

// Get retrieves a cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete expires a cookie on the client. Options must match the ones the
// cookie was set with for browsers to replace it.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	cookie := m.defaults.with(opts).cookie(name, "")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

// SetSigned stores a value with a signature and the current timestamp.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.Sign(value), opts...)
}

// GetSigned retrieves a signed cookie, verifies it and rejects it once it is
// older than maxAge. A non-positive maxAge disables the age check.
func (m *Manager) GetSigned(r *http.Request, name string, maxAge time.Duration) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.Unsign(signed, maxAge)
}

// Sign returns value joined with the signing time and an HMAC over both.
func (m *Manager) Sign(value string) string {
	ts := strconv.FormatInt(m.now().Unix(), 10)
	return encode([]byte(value)) + "." + encode([]byte(ts)) + "." + encode(m.mac(m.secrets[0], value, ts))
}

// Unsign verifies a value produced by Sign against every configured secret.
// The signature is checked before the age, so a forged timestamp never yields ErrExpired.
func (m *Manager) Unsign(signed string, maxAge time.Duration) (string, error) {
	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		return "", ErrInvalidFormat
	}

	value, err := decode(parts[0])
	if err != nil {
		return "", ErrInvalidFormat
	}
	ts, err := decode(parts[1])
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := decode(parts[2])
	if err != nil {
		return "", ErrInvalidFormat
	}

	valid := slices.ContainsFunc(m.secrets, func(secret string) bool {
		return subtle.ConstantTimeCompare(sig, m.mac(secret, string(value), string(ts))) == 1
	})
	if !valid {
		return "", ErrInvalidSignature
	}

	issued, err := strconv.ParseInt(string(ts), 10, 64)
	if err != nil {
		return "", ErrInvalidFormat
	}
	if maxAge > 0 && m.now().Sub(time.Unix(issued, 0)) > maxAge {
		return "", ErrExpired
	}

	return string(value), nil
}

func (m *Manager) mac(secret, value, ts string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(m.salt))
	h.Write([]byte{'|'})
	h.Write([]byte(value))
	h.Write([]byte{'|'})
	h.Write([]byte(ts))
	return h.Sum(nil)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}
