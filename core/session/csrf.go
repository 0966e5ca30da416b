package session

import "github.com/armonaut/armonaut/pkg/token"

const csrfKey = "_csrf_token"

// NewCSRFToken stores and returns a fresh CSRF token.
func (s *Session) NewCSRFToken() string {
	s.guard()
	tok := token.Generate()

	s.mu.Lock()
	s.data[csrfKey] = tok
	s.changed = true
	s.mu.Unlock()

	return tok
}

// CSRFToken returns the current CSRF token, creating one if needed.
func (s *Session) CSRFToken() string {
	s.guard()

	s.mu.RLock()
	tok, _ := s.data[csrfKey].(string)
	s.mu.RUnlock()

	if tok != "" {
		return tok
	}
	return s.NewCSRFToken()
}
