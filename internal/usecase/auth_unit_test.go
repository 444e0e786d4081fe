package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
)

const authTestSecret = "0123456789abcdef0123456789abcdef"

func newAuthFixture(t *testing.T, users *userRepoMock) (*AuthService, *security.TokenIssuer) {
	t.Helper()
	pool := newTestHashPool(t)
	issuer, err := security.NewTokenIssuer(authTestSecret, 72, "codeclannigeria")
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	svc, err := NewAuthService(users, pool, issuer, nil)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc, issuer
}

func verifiedUser(t *testing.T, pool *security.HashPool, email, password string) domain.User {
	t.Helper()
	return domain.User{
		ID:              "user-1",
		FirstName:       "Ada",
		LastName:        "Obi",
		Email:           email,
		PasswordHash:    mustHash(t, pool, password),
		Role:            domain.RoleMentee,
		IsEmailVerified: true,
	}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	pool := newTestHashPool(t)
	user := verifiedUser(t, pool, "ada@example.com", "S3cure!Passw0rd")
	users := newUserRepoMock(user)
	svc, issuer := newAuthFixture(t, users)

	token, got, err := svc.Login(context.Background(), "Ada@Example.com", "S3cure!Passw0rd")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatal("returned user must not carry the password hash")
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Role != string(user.Role) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthServiceWrongPassword(t *testing.T) {
	pool := newTestHashPool(t)
	user := verifiedUser(t, pool, "ada@example.com", "S3cure!Passw0rd")
	users := newUserRepoMock(user)
	svc, _ := newAuthFixture(t, users)

	if _, err := svc.ValidateUser(context.Background(), "ada@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthServiceUnknownEmail(t *testing.T) {
	users := newUserRepoMock()
	svc, _ := newAuthFixture(t, users)

	if _, err := svc.ValidateUser(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthServiceUnverifiedEmail(t *testing.T) {
	pool := newTestHashPool(t)
	user := verifiedUser(t, pool, "ada@example.com", "S3cure!Passw0rd")
	user.IsEmailVerified = false
	users := newUserRepoMock(user)
	svc, _ := newAuthFixture(t, users)

	if _, err := svc.ValidateUser(context.Background(), "ada@example.com", "S3cure!Passw0rd"); !errors.Is(err, ErrUnverifiedEmail) {
		t.Fatalf("expected ErrUnverifiedEmail, got %v", err)
	}
}

func TestAuthServiceValidateHasNoSideEffects(t *testing.T) {
	pool := newTestHashPool(t)
	user := verifiedUser(t, pool, "ada@example.com", "S3cure!Passw0rd")
	users := newUserRepoMock(user)
	svc, _ := newAuthFixture(t, users)

	for i := 0; i < 3; i++ {
		_, _ = svc.ValidateUser(context.Background(), "ada@example.com", "wrong-password")
	}
	_, err := svc.ValidateUser(context.Background(), "ada@example.com", "S3cure!Passw0rd")
	if err != nil {
		t.Fatalf("valid credentials must still succeed after failures: %v", err)
	}

	if users.updatedID != "" || users.verifiedID != "" || users.deletedID != "" || len(users.profiles) != 0 {
		t.Fatal("ValidateUser must not write to the user store")
	}
	stored, err := users.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get stored user: %v", err)
	}
	if stored.FailedSignInAttempts != 0 || stored.UpdatedAt != (time.Time{}) {
		t.Fatalf("stored user mutated: %+v", stored)
	}
}
