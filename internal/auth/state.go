package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// stateBytes is the amount of randomness in an OAuth state token.
const stateBytes = 32

// NewState returns a fresh anti-forgery token: 32 random bytes, hex-encoded
// (64 characters).
func NewState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: generating state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// StateMatches compares a returned state against the stored one in constant
// time. An empty value on either side never matches.
func StateMatches(returned, stored string) bool {
	if returned == "" || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(returned), []byte(stored)) == 1
}
