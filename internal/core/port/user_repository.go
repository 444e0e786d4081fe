package port

import (
	"context"
	"time"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) error
	MarkEmailVerified(ctx context.Context, id string, verifiedAt time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
	Delete(ctx context.Context, id string) error
}
