// Package cryptox holds the credential primitives of the auth subsystem:
// opaque token secret generation and hashing, and password hashing.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// tokenSecretBytes is the entropy of a raw token secret. 48 random bytes
// render to a 64-character base64url string.
const tokenSecretBytes = 48

// NewTokenSecret generates a fresh high-entropy raw token secret.
// The value is shown to the caller exactly once and only its hash is ever
// persisted.
func NewTokenSecret() (string, error) {
	b := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashTokenSecret derives the deterministic one-way lookup key for a raw
// token secret: sha256 rendered as base64url. Equality of presented tokens
// is decided by an exact-match keyed read on this digest, so no constant-time
// comparison is needed at the call sites.
func HashTokenSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
