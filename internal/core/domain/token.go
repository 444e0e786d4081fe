package domain

import "time"

// TokenType distinguishes the flows a temporary token may authorize.
type TokenType string

const (
	TokenTypeEmailVerify   TokenType = "EMAIL_VERIFY"
	TokenTypePasswordReset TokenType = "PASSWORD_RESET"
)

// TempToken is a single-use, time-bounded credential for account flows.
// Only the bcrypt digest of the secret is stored; the plaintext exists
// exactly once, in the generate response.
type TempToken struct {
	ID         string
	UserID     string
	Type       TokenType
	SecretHash string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// ExpiredAt reports whether the token is past its expiry at the given instant.
func (t TempToken) ExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
