package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
)

func newAccountFixture(t *testing.T, users *userRepoMock, tokens *tokenRepoMock) (*AccountService, *publisherMock, *security.HashPool) {
	t.Helper()
	pool := newTestHashPool(t)
	tempTokens, err := NewTempTokenService(tokens, pool, nil)
	if err != nil {
		t.Fatalf("new temp token service: %v", err)
	}
	events := &publisherMock{}
	svc := NewAccountService(users, tempTokens, pool, security.DefaultPasswordValidator(), events, nil)
	return svc, events, pool
}

func TestVerifyEmailFlow(t *testing.T) {
	user := domain.User{ID: "user-1", Email: "ada@example.com"}
	users := newUserRepoMock(user)
	tokens := newTokenRepoMock()
	svc, events, _ := newAccountFixture(t, users, tokens)
	fixed := time.Date(2025, time.May, 2, 8, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })

	generated, _, err := svc.RequestEmailVerification(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("RequestEmailVerification returned error: %v", err)
	}
	if generated.Record.Type != domain.TokenTypeEmailVerify {
		t.Fatalf("expected EMAIL_VERIFY token, got %s", generated.Record.Type)
	}

	if err := svc.VerifyEmail(context.Background(), "user-1", generated.Plaintext); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}

	stored, err := users.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !stored.IsEmailVerified {
		t.Fatal("expected account to be marked verified")
	}
	if len(events.emailVerified) != 1 {
		t.Fatalf("expected one EmailVerified event, got %d", len(events.emailVerified))
	}

	// The consumed token cannot confirm a second time.
	if err := svc.VerifyEmail(context.Background(), "user-1", generated.Plaintext); !errors.Is(err, ErrExpiredOrInvalidToken) {
		t.Fatalf("expected ErrExpiredOrInvalidToken on reuse, got %v", err)
	}
}

func TestVerifyEmailInvalidTokenLeavesAccountUntouched(t *testing.T) {
	user := domain.User{ID: "user-1", Email: "ada@example.com"}
	users := newUserRepoMock(user)
	tokens := newTokenRepoMock()
	svc, _, _ := newAccountFixture(t, users, tokens)

	if _, _, err := svc.RequestEmailVerification(context.Background(), "user-1"); err != nil {
		t.Fatalf("RequestEmailVerification returned error: %v", err)
	}

	if err := svc.VerifyEmail(context.Background(), "user-1", "bogus-secret"); !errors.Is(err, ErrExpiredOrInvalidToken) {
		t.Fatalf("expected ErrExpiredOrInvalidToken, got %v", err)
	}

	stored, err := users.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.IsEmailVerified {
		t.Fatal("account must not be mutated on failed validation")
	}
	if users.verifiedID != "" {
		t.Fatal("MarkEmailVerified must not be called for a bad token")
	}
}

func TestRequestEmailVerificationAlreadyVerified(t *testing.T) {
	user := domain.User{ID: "user-1", Email: "ada@example.com", IsEmailVerified: true}
	users := newUserRepoMock(user)
	svc, _, _ := newAccountFixture(t, users, newTokenRepoMock())

	if _, _, err := svc.RequestEmailVerification(context.Background(), "user-1"); !errors.Is(err, ErrEmailAlreadyVerified) {
		t.Fatalf("expected ErrEmailAlreadyVerified, got %v", err)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	users := newUserRepoMock()
	tokens := newTokenRepoMock()
	svc, events, pool := newAccountFixture(t, users, tokens)

	oldHash := mustHash(t, pool, "Old!Passw0rd")
	user := domain.User{ID: "user-1", Email: "ada@example.com", PasswordHash: oldHash, IsEmailVerified: true}
	users.byID[user.ID] = user
	users.byEmail[user.Email] = user

	req, err := svc.RequestPasswordReset(context.Background(), "Ada@Example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if req.Token.Record.Type != domain.TokenTypePasswordReset {
		t.Fatalf("expected PASSWORD_RESET token, got %s", req.Token.Record.Type)
	}
	if len(events.resetRequested) != 1 {
		t.Fatalf("expected one PasswordResetRequested event, got %d", len(events.resetRequested))
	}

	if err := svc.ResetPassword(context.Background(), "user-1", req.Token.Plaintext, "N3w!Passw0rd#2025"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	if users.updatedID != "user-1" {
		t.Fatalf("expected password update for user-1, got %q", users.updatedID)
	}
	match, err := pool.Verify(context.Background(), "N3w!Passw0rd#2025", users.updatedHash)
	if err != nil || !match {
		t.Fatalf("stored hash must match the new password, match=%v err=%v", match, err)
	}
	if len(events.passwordChanged) != 1 {
		t.Fatalf("expected one PasswordChanged event, got %d", len(events.passwordChanged))
	}

	// Token consumed: the same secret cannot reset again.
	if err := svc.ResetPassword(context.Background(), "user-1", req.Token.Plaintext, "An0ther!Passw0rd"); !errors.Is(err, ErrExpiredOrInvalidToken) {
		t.Fatalf("expected ErrExpiredOrInvalidToken on reuse, got %v", err)
	}
}

func TestResetPasswordWeakPasswordKeepsToken(t *testing.T) {
	users := newUserRepoMock()
	tokens := newTokenRepoMock()
	svc, _, pool := newAccountFixture(t, users, tokens)

	user := domain.User{ID: "user-1", Email: "ada@example.com", PasswordHash: mustHash(t, pool, "Old!Passw0rd"), IsEmailVerified: true}
	users.byID[user.ID] = user
	users.byEmail[user.Email] = user

	req, err := svc.RequestPasswordReset(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "user-1", req.Token.Plaintext, "weak"); !errors.Is(err, ErrPasswordPolicyViolation) {
		t.Fatalf("expected ErrPasswordPolicyViolation, got %v", err)
	}
	if users.updatedID != "" {
		t.Fatal("password must not change on policy violation")
	}

	// The policy check runs before the token is consumed, so a retry
	// with a strong password succeeds.
	if err := svc.ResetPassword(context.Background(), "user-1", req.Token.Plaintext, "N3w!Passw0rd#2025"); err != nil {
		t.Fatalf("retry with strong password failed: %v", err)
	}
}

func TestResetPasswordInvalidTokenNoMutation(t *testing.T) {
	users := newUserRepoMock()
	tokens := newTokenRepoMock()
	svc, _, pool := newAccountFixture(t, users, tokens)

	user := domain.User{ID: "user-1", Email: "ada@example.com", PasswordHash: mustHash(t, pool, "Old!Passw0rd"), IsEmailVerified: true}
	users.byID[user.ID] = user
	users.byEmail[user.Email] = user

	if err := svc.ResetPassword(context.Background(), "user-1", "bogus", "N3w!Passw0rd#2025"); !errors.Is(err, ErrExpiredOrInvalidToken) {
		t.Fatalf("expected ErrExpiredOrInvalidToken, got %v", err)
	}
	if users.updatedID != "" {
		t.Fatal("password must not change for an invalid token")
	}
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, events, _ := newAccountFixture(t, newUserRepoMock(), newTokenRepoMock())

	if _, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(events.resetRequested) != 0 {
		t.Fatal("no event may be published for an unknown email")
	}
}
