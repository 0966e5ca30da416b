package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUsers keeps accounts in process memory. It serves development setups
// without a database and tests.
type MemoryUsers struct {
	mu      sync.RWMutex
	byEmail map[string]User
}

// NewMemoryUsers creates an empty repository.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byEmail: make(map[string]User)}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers an account with a hashed password.
func (m *MemoryUsers) Create(ctx context.Context, email, password string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	return m.Add(User{Email: email, PasswordHash: hash})
}

// Add stores a prepared user, assigning an id and creation time when missing.
func (m *MemoryUsers) Add(user User) (User, error) {
	key := emailKey(user.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[key]; ok {
		return User{}, ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.Email = strings.TrimSpace(user.Email)
	m.byEmail[key] = user
	return user, nil
}

// FindByEmail implements Users.
func (m *MemoryUsers) FindByEmail(_ context.Context, email string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.byEmail[emailKey(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// UpdatePasswordHash implements Users.
func (m *MemoryUsers) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, user := range m.byEmail {
		if user.ID == userID {
			user.PasswordHash = hash
			m.byEmail[key] = user
			return nil
		}
	}
	return ErrUserNotFound
}
