package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/logger"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

const (
	defaultVerifyTTL = 24 * time.Hour
	defaultResetTTL  = 30 * time.Minute
)

var (
	// ErrEmailAlreadyVerified indicates a verification was requested for a confirmed account.
	ErrEmailAlreadyVerified = errors.New("email already verified")
	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
)

// AccountService drives the email verification and password reset flows
// on top of the temporary token lifecycle.
type AccountService struct {
	users      port.UserRepository
	tempTokens *TempTokenService
	hashes     *security.HashPool
	validator  *security.PasswordValidator
	events     port.EventPublisher
	logger     *zap.Logger
	now        func() time.Time

	verifyTTL time.Duration
	resetTTL  time.Duration
}

// NewAccountService constructs an AccountService.
func NewAccountService(
	users port.UserRepository,
	tempTokens *TempTokenService,
	hashes *security.HashPool,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *AccountService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		users:      users,
		tempTokens: tempTokens,
		hashes:     hashes,
		validator:  validator,
		events:     events,
		logger:     log,
		now:        time.Now,
		verifyTTL:  defaultVerifyTTL,
		resetTTL:   defaultResetTTL,
	}
}

// WithClock overrides the time source for tests.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithTTLs overrides the token lifetimes.
func (s *AccountService) WithTTLs(verifyTTL, resetTTL time.Duration) *AccountService {
	if verifyTTL > 0 {
		s.verifyTTL = verifyTTL
	}
	if resetTTL > 0 {
		s.resetTTL = resetTTL
	}
	return s
}

// RequestEmailVerification mints a fresh EMAIL_VERIFY token for the user.
// The returned plaintext goes to the notification channel and nowhere else.
func (s *AccountService) RequestEmailVerification(ctx context.Context, userID string) (GeneratedToken, *domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return GeneratedToken{}, nil, ErrUserNotFound
		}
		return GeneratedToken{}, nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.IsEmailVerified {
		return GeneratedToken{}, nil, ErrEmailAlreadyVerified
	}

	generated, err := s.tempTokens.Generate(ctx, user.ID, domain.TokenTypeEmailVerify, s.verifyTTL)
	if err != nil {
		return GeneratedToken{}, nil, err
	}
	return generated, user, nil
}

// ResendVerification mints a fresh EMAIL_VERIFY token for the account
// with the given email. Unknown emails return ErrUserNotFound so
// transports can present a uniform response.
func (s *AccountService) ResendVerification(ctx context.Context, email string) (GeneratedToken, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return GeneratedToken{}, nil, ErrUserNotFound
		}
		return GeneratedToken{}, nil, fmt.Errorf("lookup user: %w", err)
	}
	return s.RequestEmailVerification(ctx, user.ID)
}

// VerifyEmail consumes an EMAIL_VERIFY token and marks the account
// verified. The account is only mutated after the token checks out.
func (s *AccountService) VerifyEmail(ctx context.Context, userID, plaintext string) error {
	if err := s.tempTokens.Validate(ctx, userID, domain.TokenTypeEmailVerify, plaintext); err != nil {
		return err
	}

	verifiedAt := s.now().UTC()
	if err := s.users.MarkEmailVerified(ctx, userID, verifiedAt); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		event := domain.EmailVerifiedEvent{
			UserID:     user.ID,
			Email:      user.Email,
			VerifiedAt: verifiedAt,
		}
		if err := s.events.PublishEmailVerified(ctx, event); err != nil {
			s.logger.Warn("publish email verified event", zap.Error(err), zap.String("user_id", user.ID))
		}
	}

	return nil
}

// PasswordResetRequest is handed to the notification channel after a
// reset is initiated.
type PasswordResetRequest struct {
	User  domain.User
	Token GeneratedToken
}

// RequestPasswordReset mints a PASSWORD_RESET token for the account with
// the given email. An unknown email returns ErrUserNotFound; transports
// are expected to swallow it to avoid account enumeration.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (PasswordResetRequest, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return PasswordResetRequest{}, ErrUserNotFound
		}
		return PasswordResetRequest{}, fmt.Errorf("lookup user: %w", err)
	}

	generated, err := s.tempTokens.Generate(ctx, user.ID, domain.TokenTypePasswordReset, s.resetTTL)
	if err != nil {
		return PasswordResetRequest{}, err
	}

	event := domain.PasswordResetRequestedEvent{
		UserID:            user.ID,
		RequestedAt:       generated.Record.CreatedAt,
		MaskedDestination: logger.MaskEmail(user.Email),
		ExpiresAt:         generated.Record.ExpiresAt,
	}
	if err := s.events.PublishPasswordResetRequested(ctx, event); err != nil {
		s.logger.Warn("publish password reset requested event", zap.Error(err), zap.String("user_id", user.ID))
	}

	return PasswordResetRequest{User: *user, Token: generated}, nil
}

// ResetPassword consumes a PASSWORD_RESET token and replaces the stored
// credential. Nothing is written until both the token and the new
// password have been fully validated.
func (s *AccountService) ResetPassword(ctx context.Context, userID, plaintext, newPassword string) error {
	if err := s.validator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	if err := s.tempTokens.Validate(ctx, userID, domain.TokenTypePasswordReset, plaintext); err != nil {
		return err
	}

	newHash, err := s.hashes.Hash(ctx, newPassword)
	if err != nil {
		return err
	}

	changedAt := s.now().UTC()
	if err := s.users.UpdatePassword(ctx, userID, newHash, changedAt); err != nil {
		return fmt.Errorf("apply new password: %w", err)
	}

	event := domain.PasswordChangedEvent{
		UserID:    userID,
		ChangedAt: changedAt,
		ChangedBy: userID,
	}
	if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
		s.logger.Warn("publish password changed event", zap.Error(err), zap.String("user_id", userID))
	}

	return nil
}
