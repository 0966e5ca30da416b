package session

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/armonaut/armonaut/pkg/token"
)

// Session is a string-keyed map of request-spanning user state with change tracking.
//
// Reads never mark the session as changed. Writes mark it only when they
// actually alter the stored value, so re-setting a key to an equal value does
// not force a store write. The identifier is generated on first use, which
// keeps cookie issuance lazy.
//
// Values must be serializable by the session codec. Integers come back from the
// store as int64, typed slices as []any and maps as map[string]any. Equality
// for change tracking is judged on the stored form, so setting 1 over a loaded
// int64(1) is still a no-op.
type Session struct {
	mu sync.RWMutex

	data        map[string]any
	id          string
	created     time.Time
	isNew       bool
	changed     bool
	invalidated []string

	// disabled marks the Invalid variant; it never changes after construction.
	disabled bool
}

// New creates an empty session that has never been persisted.
func New() *Session {
	return &Session{
		data:    make(map[string]any),
		created: time.Now(),
		isNew:   true,
	}
}

// Load reconstructs a persisted session from its id, creation time and data.
func Load(id string, created time.Time, data map[string]any) *Session {
	if data == nil {
		data = make(map[string]any)
	}
	return &Session{
		data:    data,
		id:      id,
		created: created,
	}
}

// Invalid returns a session for routes that declared they do not use sessions.
// Every operation on it panics with ErrInvalidUsage.
func Invalid() *Session {
	return &Session{disabled: true}
}

// IsInvalid reports whether s is the Invalid variant. It is the only method
// that is safe to call on it.
func (s *Session) IsInvalid() bool {
	return s.disabled
}

func (s *Session) guard() {
	if s.disabled {
		panic(ErrInvalidUsage)
	}
}

// ID returns the session identifier, generating it on first call.
func (s *Session) ID() string {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id == "" {
		s.id = token.Generate()
	}
	return s.id
}

// Created returns when the session was created or last invalidated.
func (s *Session) Created() time.Time {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created
}

// IsNew reports whether the session has never been persisted.
func (s *Session) IsNew() bool {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isNew
}

// ShouldSave reports whether the session changed since it was loaded.
func (s *Session) ShouldSave() bool {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// Changed marks the session as modified. Call it after mutating a value
// obtained by reference, such as a nested map.
func (s *Session) Changed() {
	s.guard()
	s.mu.Lock()
	s.changed = true
	s.mu.Unlock()
}

// InvalidatedIDs returns the identifiers this session superseded and that
// must be purged from the store.
func (s *Session) InvalidatedIDs() []string {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.invalidated)
}

// Invalidate drops all data and detaches the session from its identifier.
// The previous identifier, if one was issued, is queued for deletion and a
// fresh one is generated on next use. An invalidated session that is not
// written to afterwards is not saved.
func (s *Session) Invalidate() {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" {
		s.invalidated = append(s.invalidated, s.id)
	}
	s.id = ""
	s.data = make(map[string]any)
	s.created = time.Now()
	s.isNew = true
	s.changed = false
}

// MarkSaved records that the session was persisted under its current id
// and that superseded identifiers were purged.
func (s *Session) MarkSaved() {
	s.guard()
	s.mu.Lock()
	s.isNew = false
	s.changed = false
	s.invalidated = nil
	s.mu.Unlock()
}

// Get returns the value stored under key.
func (s *Session) Get(key string) (any, bool) {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// GetOr returns the value stored under key or def when absent.
func (s *Session) GetOr(key string, def any) any {
	if v, ok := s.Get(key); ok {
		return v
	}
	return def
}

// GetString returns the string stored under key, or "" when absent or not a string.
func (s *Session) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// Contains reports whether key is present.
func (s *Session) Contains(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Len returns the number of stored keys.
func (s *Session) Len() int {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Keys returns the stored keys in sorted order.
func (s *Session) Keys() []string {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data))
}

// Values returns the stored values ordered by key.
func (s *Session) Values() []any {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := slices.Sorted(maps.Keys(s.data))
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = s.data[k]
	}
	return values
}

// Items returns a shallow copy of the stored data.
func (s *Session) Items() map[string]any {
	s.guard()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data)
}

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, value)
}

func (s *Session) set(key string, value any) {
	if old, ok := s.data[key]; ok && sameValue(old, value) {
		return
	}
	s.data[key] = value
	s.changed = true
}

// SetDefault returns the value under key, storing def first if key is absent.
func (s *Session) SetDefault(key string, def any) any {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.data[key]; ok {
		return v
	}
	s.data[key] = def
	s.changed = true
	return def
}

// Update stores every pair of values.
func (s *Session) Update(values map[string]any) {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range values {
		s.set(k, v)
	}
}

// Delete removes key.
func (s *Session) Delete(key string) {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.changed = true
	}
}

// Pop removes key and returns its former value.
func (s *Session) Pop(key string) (any, bool) {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if ok {
		delete(s.data, key)
		s.changed = true
	}
	return v, ok
}

// Clear removes all keys.
func (s *Session) Clear() {
	s.guard()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]any)
	s.changed = true
}
