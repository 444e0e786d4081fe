package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenSecretBytes is the entropy of a temporary token secret. 48 random
// bytes encode to 64 base64 characters, which keeps the plaintext inside
// bcrypt's 72-byte input limit.
const TokenSecretBytes = 48

// GenerateSecureToken returns a base64 URL-safe random string using the specified number of random bytes.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateTokenSecret returns the plaintext secret for a temporary token.
func GenerateTokenSecret() (string, error) {
	return GenerateSecureToken(TokenSecretBytes)
}
