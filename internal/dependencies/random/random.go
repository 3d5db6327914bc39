package random

import (
	"crypto/rand"
	"encoding/base64"
)

// TokenBytes is the entropy of a session token
const TokenBytes = 32

// Random provides randomness that can be mocked for testing
type Random interface {
	// Token returns an opaque URL-safe identifier carrying TokenBytes of entropy
	Token() string
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token returns TokenBytes random bytes, base64url encoded without padding
func (r *CryptoRandom) Token() string {
	b := make([]byte, TokenBytes)
	// crypto/rand.Read never returns an error on supported platforms
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
