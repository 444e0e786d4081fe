package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
)

func newRegistrationFixture(t *testing.T, users *userRepoMock, tokens *tokenRepoMock) (*RegistrationService, *publisherMock, *security.HashPool) {
	t.Helper()
	pool := newTestHashPool(t)
	tempTokens, err := NewTempTokenService(tokens, pool, nil)
	if err != nil {
		t.Fatalf("new temp token service: %v", err)
	}
	events := &publisherMock{}
	svc := NewRegistrationService(users, tempTokens, pool, security.DefaultPasswordValidator(), events, nil)
	return svc, events, pool
}

func TestRegisterSuccess(t *testing.T) {
	users := newUserRepoMock()
	tokens := newTokenRepoMock()
	svc, events, pool := newRegistrationFixture(t, users, tokens)
	fixed := time.Date(2025, time.June, 5, 10, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	user, generated, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "Ada@Example.com",
		Password:  "S3cure!Passw0rd#2025",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.Email != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if user.Role != domain.RoleMentee {
		t.Fatalf("expected MENTEE role, got %s", user.Role)
	}
	if user.IsEmailVerified {
		t.Fatal("new accounts start unverified")
	}
	if user.PasswordHash != "" {
		t.Fatal("returned user must not carry the password hash")
	}

	if len(users.created) != 1 {
		t.Fatalf("expected one created user, got %d", len(users.created))
	}
	stored := users.created[0]
	if stored.PasswordHash == "" || stored.PasswordHash == "S3cure!Passw0rd#2025" {
		t.Fatal("stored credential must be a digest, not the plaintext")
	}
	match, err := pool.Verify(context.Background(), "S3cure!Passw0rd#2025", stored.PasswordHash)
	if err != nil || !match {
		t.Fatalf("stored digest must match the password, match=%v err=%v", match, err)
	}

	if generated.Record.Type != domain.TokenTypeEmailVerify {
		t.Fatalf("expected EMAIL_VERIFY token, got %s", generated.Record.Type)
	}
	if len(events.registered) != 1 {
		t.Fatalf("expected one UserRegistered event, got %d", len(events.registered))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	existing := domain.User{ID: "user-1", Email: "ada@example.com"}
	users := newUserRepoMock(existing)
	svc, _, _ := newRegistrationFixture(t, users, newTokenRepoMock())

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.com",
		Password:  "S3cure!Passw0rd#2025",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	users := newUserRepoMock()
	svc, _, _ := newRegistrationFixture(t, users, newTokenRepoMock())

	_, _, err := svc.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Obi",
		Email:     "ada@example.com",
		Password:  "password",
	})
	if !errors.Is(err, ErrPasswordPolicyViolation) {
		t.Fatalf("expected ErrPasswordPolicyViolation, got %v", err)
	}
	if len(users.created) != 0 {
		t.Fatal("no user may be created for a weak password")
	}
}
