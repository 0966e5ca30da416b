package session

const userIDKey = "auth.userid"

// UserID returns the authenticated principal stored in the session, or "".
func UserID(s *Session) string {
	return s.GetString(userIDKey)
}

// Authenticate binds userID to the session and defends against session fixation.
//
// If the session already belongs to a different principal it is invalidated
// and starts empty. Otherwise its data survives but moves to a new identifier.
// In both cases the old identifier is queued for deletion and the CSRF token
// is rotated.
func Authenticate(s *Session, userID string) {
	if current := UserID(s); current != "" && current != userID {
		s.Invalidate()
	} else {
		snapshot := s.Items()
		s.Invalidate()
		s.Update(snapshot)
	}

	s.Set(userIDKey, userID)
	s.NewCSRFToken()
}

// Logout drops all session data and the identifier it was stored under.
func Logout(s *Session) {
	s.Invalidate()
}
