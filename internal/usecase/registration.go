package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/logger"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

// ErrEmailTaken indicates an account with the email already exists.
var ErrEmailTaken = errors.New("email already registered")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegistrationService handles new account onboarding.
type RegistrationService struct {
	users      port.UserRepository
	tempTokens *TempTokenService
	hashes     *security.HashPool
	validator  *security.PasswordValidator
	events     port.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
	verifyTTL  time.Duration
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(
	users port.UserRepository,
	tempTokens *TempTokenService,
	hashes *security.HashPool,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RegistrationService{
		users:      users,
		tempTokens: tempTokens,
		hashes:     hashes,
		validator:  validator,
		events:     events,
		logger:     log,
		now:        time.Now,
		verifyTTL:  defaultVerifyTTL,
	}
}

// WithClock overrides the time source for tests.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithVerifyTTL overrides the verification token lifetime.
func (s *RegistrationService) WithVerifyTTL(ttl time.Duration) *RegistrationService {
	if ttl > 0 {
		s.verifyTTL = ttl
	}
	return s
}

// RegisterInput carries the signup form.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates an unverified MENTEE account. The password is hashed
// before the user row is written; no hook runs behind the caller's back.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (domain.User, GeneratedToken, error) {
	var zero GeneratedToken

	email := normalizeEmail(input.Email)
	if email == "" {
		return domain.User{}, zero, fmt.Errorf("email is required")
	}
	if input.FirstName == "" || input.LastName == "" {
		return domain.User{}, zero, fmt.Errorf("first and last name are required")
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return domain.User{}, zero, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	passwordHash, err := s.hashes.Hash(ctx, input.Password)
	if err != nil {
		return domain.User{}, zero, err
	}

	now := s.now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleMentee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.User{}, zero, ErrEmailTaken
		}
		return domain.User{}, zero, fmt.Errorf("create user: %w", err)
	}

	generated, err := s.tempTokens.Generate(ctx, user.ID, domain.TokenTypeEmailVerify, s.verifyTTL)
	if err != nil {
		return domain.User{}, zero, fmt.Errorf("mint verification token: %w", err)
	}

	event := domain.UserRegisteredEvent{
		UserID:       user.ID,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Role:         string(user.Role),
		RegisteredAt: now,
	}
	if err := s.events.PublishUserRegistered(ctx, event); err != nil {
		s.logger.Warn("publish user registered event", zap.Error(err), zap.String("user_id", user.ID))
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	sanitized := user
	sanitized.PasswordHash = ""
	return sanitized, generated, nil
}
