package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
)

// Size is the number of random bytes behind every token.
const Size = 32

// Generate returns a new random token: Size bytes encoded as base64 URL-safe
// text without padding.
func Generate() string {
	b := make([]byte, Size)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Equal reports whether a and b are the same token.
// The comparison takes time independent of the contents, so it is safe for secrets.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
