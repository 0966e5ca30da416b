package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armonaut/armonaut/core/session"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("anonymous to authenticated keeps data and rotates id", func(t *testing.T) {
		sess := session.Load("A", time.Now(), map[string]any{"lang": "en"})
		csrfBefore := sess.CSRFToken()

		session.Authenticate(sess, "42")

		assert.NotEqual(t, "A", sess.ID())
		assert.Equal(t, "en", sess.GetString("lang"))
		assert.Equal(t, "42", session.UserID(sess))
		assert.Equal(t, []string{"A"}, sess.InvalidatedIDs())
		assert.NotEqual(t, csrfBefore, sess.CSRFToken())
		assert.True(t, sess.ShouldSave())
	})

	t.Run("same principal again keeps data", func(t *testing.T) {
		sess := session.Load("A", time.Now(), map[string]any{"auth.userid": "42", "theme": "dark"})

		session.Authenticate(sess, "42")

		assert.Equal(t, "dark", sess.GetString("theme"))
		assert.Equal(t, "42", session.UserID(sess))
		assert.Equal(t, []string{"A"}, sess.InvalidatedIDs())
	})

	t.Run("different principal starts clean", func(t *testing.T) {
		sess := session.Load("A", time.Now(), map[string]any{"auth.userid": "7", "cart": "secret"})

		session.Authenticate(sess, "42")

		assert.False(t, sess.Contains("cart"))
		assert.Equal(t, "42", session.UserID(sess))
		assert.Equal(t, []string{"A"}, sess.InvalidatedIDs())
		require.Len(t, sess.Keys(), 2)
		assert.Equal(t, []string{"_csrf_token", "auth.userid"}, sess.Keys())
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	sess := session.Load("A", time.Now(), map[string]any{"auth.userid": "42"})

	session.Logout(sess)

	assert.Empty(t, session.UserID(sess))
	assert.False(t, sess.ShouldSave())
	assert.Equal(t, []string{"A"}, sess.InvalidatedIDs())
}
