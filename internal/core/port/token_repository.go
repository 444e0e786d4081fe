package port

import (
	"context"
	"time"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
)

// TokenRepository manages temporary token records.
//
// DeleteIfPresent is the single-use gate: it removes the record with the
// given id and reports whether this call removed it. Under concurrent
// validation exactly one caller observes true.
type TokenRepository interface {
	Create(ctx context.Context, token domain.TempToken) error
	FindByUserAndType(ctx context.Context, userID string, tokenType domain.TokenType) ([]domain.TempToken, error)
	DeleteIfPresent(ctx context.Context, id string) (bool, error)
	DeleteByUserAndType(ctx context.Context, userID string, tokenType domain.TokenType) (int, error)
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
