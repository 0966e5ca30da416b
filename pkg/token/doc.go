// Package token generates opaque, URL-safe random tokens used as session
// identifiers, CSRF tokens and OAuth state values.
//
// Every token carries 32 bytes of entropy from crypto/rand and is rendered
// with base64.RawURLEncoding, so it is 43 characters long, contains only
// [A-Za-z0-9_-] and never has padding.
//
// # Usage
//
//	import "github.com/armonaut/armonaut/pkg/token"
//
//	id := token.Generate()
//
//	// Compare secrets in constant time
//	if !token.Equal(submitted, expected) {
//		return ErrInvalidToken
//	}
//
// Generate has no error return. Since Go 1.24 crypto/rand.Read never returns
// an error and crashes the program irrecoverably if the kernel entropy source
// fails, which is the only sane reaction for a component that mints secrets.
//
// The package is stateless and safe for concurrent use.
package token
