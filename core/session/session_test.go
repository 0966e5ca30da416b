package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armonaut/armonaut/core/session"
)

func TestNew(t *testing.T) {
	t.Parallel()

	sess := session.New()

	assert.False(t, sess.ShouldSave())
	assert.True(t, sess.IsNew())
	assert.False(t, sess.IsInvalid())
	assert.Zero(t, sess.Len())
	assert.Empty(t, sess.InvalidatedIDs())
	assert.WithinDuration(t, time.Now(), sess.Created(), time.Second)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	created := time.Unix(1700000000, 0)
	sess := session.Load("abc", created, map[string]any{"lang": "en"})

	assert.Equal(t, "abc", sess.ID())
	assert.Equal(t, created, sess.Created())
	assert.False(t, sess.IsNew())
	assert.False(t, sess.ShouldSave())
	assert.Equal(t, "en", sess.GetString("lang"))
}

func TestSession_ID(t *testing.T) {
	t.Parallel()

	t.Run("lazy and stable", func(t *testing.T) {
		sess := session.New()
		id := sess.ID()

		assert.Len(t, id, 43)
		assert.Equal(t, id, sess.ID())
		assert.False(t, sess.ShouldSave(), "reading the id is not a mutation")
	})

	t.Run("concurrent first access yields one id", func(t *testing.T) {
		sess := session.New()

		var (
			wg  sync.WaitGroup
			mu  sync.Mutex
			ids = make(map[string]struct{})
		)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := sess.ID()
				mu.Lock()
				ids[id] = struct{}{}
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, ids, 1)
	})
}

func TestSession_ChangeTracking(t *testing.T) {
	t.Parallel()

	loaded := func() *session.Session {
		return session.Load("id", time.Now(), map[string]any{
			"lang":  "en",
			"tags":  []any{"a", "b"},
			"count": int64(1),
			"prefs": map[string]any{"theme": "dark"},
		})
	}

	tests := []struct {
		name    string
		mutate  func(s *session.Session)
		changed bool
	}{
		{"set equal string", func(s *session.Session) { s.Set("lang", "en") }, false},
		{"set equal slice", func(s *session.Session) { s.Set("tags", []any{"a", "b"}) }, false},
		{"set different value", func(s *session.Session) { s.Set("lang", "de") }, true},
		{"set int over stored int64", func(s *session.Session) { s.Set("count", 1) }, false},
		{"set typed slice over stored slice", func(s *session.Session) { s.Set("tags", []string{"a", "b"}) }, false},
		{"set typed map over stored map", func(s *session.Session) { s.Set("prefs", map[string]string{"theme": "dark"}) }, false},
		{"set different type", func(s *session.Session) { s.Set("count", "1") }, true},
		{"set reordered slice", func(s *session.Session) { s.Set("tags", []string{"b", "a"}) }, true},
		{"set new key", func(s *session.Session) { s.Set("theme", "dark") }, true},
		{"setdefault existing", func(s *session.Session) { s.SetDefault("lang", "de") }, false},
		{"setdefault missing", func(s *session.Session) { s.SetDefault("theme", "dark") }, true},
		{"update with equal values", func(s *session.Session) { s.Update(map[string]any{"lang": "en", "count": 1}) }, false},
		{"update with new value", func(s *session.Session) { s.Update(map[string]any{"lang": "fr"}) }, true},
		{"delete existing", func(s *session.Session) { s.Delete("lang") }, true},
		{"delete missing", func(s *session.Session) { s.Delete("nope") }, false},
		{"pop existing", func(s *session.Session) { s.Pop("lang") }, true},
		{"pop missing", func(s *session.Session) { s.Pop("nope") }, false},
		{"clear", func(s *session.Session) { s.Clear() }, true},
		{"flash", func(s *session.Session) { s.Flash("hi") }, true},
		{"new csrf token", func(s *session.Session) { s.NewCSRFToken() }, true},
		{"explicit changed", func(s *session.Session) { s.Changed() }, true},
		{"reads", func(s *session.Session) {
			s.Get("lang")
			s.GetOr("missing", 1)
			s.Contains("lang")
			s.Keys()
			s.Values()
			s.Items()
			s.Len()
			s.PeekFlash("")
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := loaded()
			tt.mutate(sess)
			assert.Equal(t, tt.changed, sess.ShouldSave())
		})
	}
}

func TestSession_MappingOperations(t *testing.T) {
	t.Parallel()

	sess := session.New()

	v, ok := sess.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, "fallback", sess.GetOr("missing", "fallback"))

	sess.Set("b", "2")
	sess.Set("a", "1")
	sess.Set("c", int64(3))

	assert.True(t, sess.Contains("a"))
	assert.Equal(t, 3, sess.Len())
	assert.Equal(t, []string{"a", "b", "c"}, sess.Keys())
	assert.Equal(t, []any{"1", "2", int64(3)}, sess.Values())
	assert.Equal(t, map[string]any{"a": "1", "b": "2", "c": int64(3)}, sess.Items())
	assert.Equal(t, "", sess.GetString("c"), "non-string values read as empty")

	assert.Equal(t, "1", sess.SetDefault("a", "x"))
	assert.Equal(t, "y", sess.SetDefault("d", "y"))

	popped, ok := sess.Pop("d")
	require.True(t, ok)
	assert.Equal(t, "y", popped)
	assert.False(t, sess.Contains("d"))

	items := sess.Items()
	items["a"] = "mutated"
	assert.Equal(t, "1", sess.GetString("a"), "Items returns a copy")

	sess.Clear()
	assert.Zero(t, sess.Len())
}

func TestSession_Invalidate(t *testing.T) {
	t.Parallel()

	t.Run("issued id is queued for deletion", func(t *testing.T) {
		sess := session.Load("old-id", time.Unix(0, 0), map[string]any{"lang": "en"})

		sess.Invalidate()

		assert.False(t, sess.ShouldSave())
		assert.True(t, sess.IsNew())
		assert.Zero(t, sess.Len())
		assert.Equal(t, []string{"old-id"}, sess.InvalidatedIDs())
		assert.WithinDuration(t, time.Now(), sess.Created(), time.Second)

		newID := sess.ID()
		assert.NotEqual(t, "old-id", newID)
	})

	t.Run("never issued id is not queued", func(t *testing.T) {
		sess := session.New()
		sess.Set("a", "b")

		sess.Invalidate()

		assert.Empty(t, sess.InvalidatedIDs())
		assert.False(t, sess.ShouldSave())
	})

	t.Run("writes after invalidation are saved", func(t *testing.T) {
		sess := session.Load("old-id", time.Now(), nil)

		sess.Invalidate()
		sess.Set("a", "b")

		assert.True(t, sess.ShouldSave())
		assert.Equal(t, []string{"old-id"}, sess.InvalidatedIDs())
	})

	t.Run("repeated invalidation accumulates ids", func(t *testing.T) {
		sess := session.Load("first", time.Now(), nil)

		sess.Invalidate()
		second := sess.ID()
		sess.Invalidate()

		assert.Equal(t, []string{"first", second}, sess.InvalidatedIDs())
	})
}

func TestSession_MarkSaved(t *testing.T) {
	t.Parallel()

	sess := session.Load("old", time.Now(), nil)
	sess.Invalidate()
	sess.Set("a", "b")

	sess.MarkSaved()

	assert.False(t, sess.IsNew())
	assert.False(t, sess.ShouldSave())
	assert.Empty(t, sess.InvalidatedIDs())
}

func TestSession_CSRFToken(t *testing.T) {
	t.Parallel()

	sess := session.New()

	tok := sess.CSRFToken()
	assert.Len(t, tok, 43)
	assert.True(t, sess.ShouldSave())
	assert.Equal(t, tok, sess.CSRFToken())
	assert.Equal(t, tok, sess.GetString("_csrf_token"))

	rotated := sess.NewCSRFToken()
	assert.NotEqual(t, tok, rotated)
	assert.Equal(t, rotated, sess.CSRFToken())
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	sess := session.Invalid()
	assert.True(t, sess.IsInvalid())

	ops := map[string]func(){
		"ID":             func() { sess.ID() },
		"Created":        func() { sess.Created() },
		"IsNew":          func() { sess.IsNew() },
		"ShouldSave":     func() { sess.ShouldSave() },
		"InvalidatedIDs": func() { sess.InvalidatedIDs() },
		"Get":            func() { sess.Get("a") },
		"GetOr":          func() { sess.GetOr("a", 1) },
		"Contains":       func() { sess.Contains("a") },
		"Len":            func() { sess.Len() },
		"Keys":           func() { sess.Keys() },
		"Values":         func() { sess.Values() },
		"Items":          func() { sess.Items() },
		"Set":            func() { sess.Set("a", 1) },
		"SetDefault":     func() { sess.SetDefault("a", 1) },
		"Update":         func() { sess.Update(map[string]any{"a": 1}) },
		"Delete":         func() { sess.Delete("a") },
		"Pop":            func() { sess.Pop("a") },
		"Clear":          func() { sess.Clear() },
		"Invalidate":     func() { sess.Invalidate() },
		"Changed":        func() { sess.Changed() },
		"MarkSaved":      func() { sess.MarkSaved() },
		"Flash":          func() { sess.Flash("x") },
		"PeekFlash":      func() { sess.PeekFlash("") },
		"PopFlash":       func() { sess.PopFlash("") },
		"CSRFToken":      func() { sess.CSRFToken() },
		"NewCSRFToken":   func() { sess.NewCSRFToken() },
		"Authenticate":   func() { session.Authenticate(sess, "1") },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.PanicsWithError(t, session.ErrInvalidUsage.Error(), op)
		})
	}
}
