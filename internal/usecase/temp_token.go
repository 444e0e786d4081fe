package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/telemetry"
)

// ErrExpiredOrInvalidToken is the uniform failure for temporary token
// validation. Callers cannot tell a wrong secret from an expired or
// already-consumed token.
var ErrExpiredOrInvalidToken = errors.New("token expired or invalid")

// TempTokenService owns the lifecycle of single-use temporary tokens.
type TempTokenService struct {
	tokens  port.TokenRepository
	hashes  *security.HashPool
	logger  *zap.Logger
	metrics *telemetry.Metrics
	now     func() time.Time

	dummyHash string
}

// NewTempTokenService constructs the service and precomputes the dummy
// digest used to equalize the missing-record path.
func NewTempTokenService(tokens port.TokenRepository, hashes *security.HashPool, log *zap.Logger) (*TempTokenService, error) {
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

	return &TempTokenService{
		tokens:    tokens,
		hashes:    hashes,
		logger:    log,
		now:       time.Now,
		dummyHash: dummyHash,
	}, nil
}

// WithMetrics attaches the domain collectors.
func (s *TempTokenService) WithMetrics(m *telemetry.Metrics) *TempTokenService {
	s.metrics = m
	return s
}

// WithClock overrides the time source for tests.
func (s *TempTokenService) WithClock(now func() time.Time) *TempTokenService {
	if now != nil {
		s.now = now
	}
	return s
}

// GeneratedToken pairs the persisted record with the plaintext secret.
// The plaintext exists only in this value; it is never stored.
type GeneratedToken struct {
	Record    domain.TempToken
	Plaintext string
}

// Generate mints a fresh token for the user and flow, replacing any
// outstanding token of the same type. The digest is computed before any
// store mutation.
func (s *TempTokenService) Generate(ctx context.Context, userID string, tokenType domain.TokenType, ttl time.Duration) (GeneratedToken, error) {
	if userID == "" {
		return GeneratedToken{}, fmt.Errorf("user id is required")
	}
	if ttl <= 0 {
		return GeneratedToken{}, fmt.Errorf("ttl must be positive")
	}

	secret, err := security.GenerateTokenSecret()
	if err != nil {
		return GeneratedToken{}, fmt.Errorf("generate token secret: %w", err)
	}

	secretHash, err := s.hashes.Hash(ctx, secret)
	if err != nil {
		return GeneratedToken{}, err
	}

	// A new request supersedes any token still outstanding for the same
	// flow, so at most one secret per user and type is ever live.
	if _, err := s.tokens.DeleteByUserAndType(ctx, userID, tokenType); err != nil {
		return GeneratedToken{}, fmt.Errorf("invalidate previous tokens: %w", err)
	}

	now := s.now().UTC()
	record := domain.TempToken{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       tokenType,
		SecretHash: secretHash,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return GeneratedToken{}, fmt.Errorf("store token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.TokensIssued.WithLabelValues(string(tokenType)).Inc()
	}

	return GeneratedToken{Record: record, Plaintext: secret}, nil
}

// Validate checks the plaintext against the user's outstanding token of
// the given type and consumes it on success. Exactly one concurrent
// caller can succeed for a given record; everyone else sees
// ErrExpiredOrInvalidToken.
func (s *TempTokenService) Validate(ctx context.Context, userID string, tokenType domain.TokenType, plaintext string) error {
	if userID == "" || plaintext == "" {
		return ErrExpiredOrInvalidToken
	}

	records, err := s.tokens.FindByUserAndType(ctx, userID, tokenType)
	if err != nil {
		return fmt.Errorf("lookup tokens: %w", err)
	}

	if len(records) == 0 {
		// Same cost as the record-present path.
		if _, verr := s.hashes.Verify(ctx, plaintext, s.dummyHash); verr != nil {
			return verr
		}
		return ErrExpiredOrInvalidToken
	}

	now := s.now().UTC()
	for _, record := range records {
		// Expiry is evaluated independently of the comparison: an
		// expired record still costs a full verification.
		expired := record.ExpiredAt(now)

		match, err := s.hashes.Verify(ctx, plaintext, record.SecretHash)
		if err != nil {
			return err
		}
		if !match || expired {
			continue
		}

		removed, err := s.tokens.DeleteIfPresent(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("consume token: %w", err)
		}
		if !removed {
			// Another validator consumed it between our read and delete.
			return ErrExpiredOrInvalidToken
		}
		return nil
	}

	return ErrExpiredOrInvalidToken
}
