package security

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
)

const minJWTSecretLength = 32

// ErrInvalidSessionToken covers every parse failure: bad signature,
// malformed token, or expired claims.
var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionClaims is the payload of a signed session token.
type SessionClaims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
	issuer   string
	now      func() time.Time
}

// NewTokenIssuer validates the signing configuration once at startup so a
// misconfigured secret can never surface as a per-request failure.
func NewTokenIssuer(secret string, validityHours int, issuer string) (*TokenIssuer, error) {
	if len(secret) < minJWTSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minJWTSecretLength)
	}
	if validityHours <= 0 {
		return nil, fmt.Errorf("jwt validity hours must be positive, got %d", validityHours)
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		validity: time.Duration(validityHours) * time.Hour,
		issuer:   issuer,
		now:      time.Now,
	}, nil
}

// WithClock overrides the time source for tests.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	if now != nil {
		t.now = now
	}
	return t
}

// Issue signs a session token carrying the user's email, id, and role.
func (t *TokenIssuer) Issue(user domain.User) (string, error) {
	now := t.now().UTC()
	claims := SessionClaims{
		Email:  user.Email,
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.validity)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates signature and expiry and returns the session claims.
func (t *TokenIssuer) Parse(raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSessionToken
	}
	return claims, nil
}

// Validity returns the configured token lifetime.
func (t *TokenIssuer) Validity() time.Duration {
	return t.validity
}
