package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/logger"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/telemetry"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnverifiedEmail indicates the password was correct but the account's email is not verified yet.
	ErrUnverifiedEmail = errors.New("email not verified")
)

// AuthService validates credentials and issues session tokens.
type AuthService struct {
	users   port.UserRepository
	hashes  *security.HashPool
	issuer  *security.TokenIssuer
	logger  *zap.Logger
	metrics *telemetry.Metrics

	// dummyHash is compared against when no account matches, so the
	// missing-account path costs one bcrypt verification like every
	// other path.
	dummyHash string
}

// NewAuthService constructs an AuthService. The dummy digest is derived
// from a throwaway random secret at startup.
func NewAuthService(users port.UserRepository, hashes *security.HashPool, issuer *security.TokenIssuer, log *zap.Logger) (*AuthService, error) {
	if log == nil {
		log = zap.NewNop()
	}

	throwaway, err := security.GenerateTokenSecret()
	if err != nil {
		return nil, fmt.Errorf("generate dummy secret: %w", err)
	}
	dummyHash, err := hashes.Hash(context.Background(), throwaway)
	if err != nil {
		return nil, fmt.Errorf("hash dummy secret: %w", err)
	}

	return &AuthService{
		users:     users,
		hashes:    hashes,
		issuer:    issuer,
		logger:    log,
		dummyHash: dummyHash,
	}, nil
}

// WithMetrics attaches the domain collectors.
func (s *AuthService) WithMetrics(m *telemetry.Metrics) *AuthService {
	s.metrics = m
	return s
}

func (s *AuthService) recordFailure() {
	if s.metrics != nil {
		s.metrics.SignInFailures.Inc()
	}
}

// ValidateUser checks an email/password pair against the stored account.
// It has no side effects: no counters, no lockouts, no token issuance.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.recordFailure()
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn a comparison anyway so response time does not
			// reveal whether the account exists.
			if _, verr := s.hashes.Verify(ctx, password, s.dummyHash); verr != nil {
				return nil, verr
			}
			s.recordFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsEmailVerified {
		return nil, ErrUnverifiedEmail
	}

	match, err := s.hashes.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		s.recordFailure()
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// TokenValidity exposes the configured session token lifetime.
func (s *AuthService) TokenValidity() time.Duration {
	return s.issuer.Validity()
}

// Login validates credentials and returns a signed session token with the
// sanitized account.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.ValidateUser(ctx, email, password)
	if err != nil {
		return "", domain.User{}, err
	}

	token, err := s.issuer.Issue(*user)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue session token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("email", logger.MaskEmail(user.Email)))

	sanitized := *user
	sanitized.PasswordHash = ""
	return token, sanitized, nil
}
