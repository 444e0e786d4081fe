package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

// ErrPermissionDenied indicates the acting user lacks the role an
// operation requires.
var ErrPermissionDenied = errors.New("permission denied")

// RequireRole is the single authorization gate: callers name the roles an
// operation accepts and get an explicit error back.
func RequireRole(actor domain.User, roles ...domain.Role) error {
	if actor.HasAnyRole(roles...) {
		return nil
	}
	return ErrPermissionDenied
}

// UserService exposes account administration and profile management.
type UserService struct {
	users  port.UserRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewUserService constructs a UserService.
func NewUserService(users port.UserRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, logger: log, now: time.Now}
}

// Get returns a single sanitized account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// List pages through accounts. Admin only.
func (s *UserService) List(ctx context.Context, actor domain.User, limit, offset int) ([]domain.User, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FirstName    string
	LastName     string
	PhoneNumber  *string
	PhotoURL     *string
	Description  *string
	Technologies []string
}

// UpdateProfile lets a user edit their own profile, or an admin edit anyone's.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.User, id string, update ProfileUpdate) (*domain.User, error) {
	if actor.ID != id {
		if err := RequireRole(actor, domain.RoleAdmin); err != nil {
			return nil, err
		}
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.PhoneNumber != nil {
		user.PhoneNumber = update.PhoneNumber
	}
	if update.PhotoURL != nil {
		user.PhotoURL = update.PhotoURL
	}
	if update.Description != nil {
		user.Description = update.Description
	}
	if update.Technologies != nil {
		user.Technologies = update.Technologies
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.UpdateProfile(ctx, *user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// PromoteToMentor changes a mentee account to a mentor. Admin only.
func (s *UserService) PromoteToMentor(ctx context.Context, actor domain.User, id string) (*domain.User, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	user.Role = domain.RoleMentor
	user.UpdatedAt = s.now().UTC()
	if err := s.users.UpdateProfile(ctx, *user); err != nil {
		return nil, fmt.Errorf("promote user: %w", err)
	}

	s.logger.Info("user promoted to mentor", zap.String("user_id", id), zap.String("actor_id", actor.ID))

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// Delete removes an account. Admin only.
func (s *UserService) Delete(ctx context.Context, actor domain.User, id string) error {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("actor_id", actor.ID))
	return nil
}
