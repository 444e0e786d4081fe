package port

import (
	"context"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishEmailVerified(ctx context.Context, event domain.EmailVerifiedEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishPasswordResetRequested(ctx context.Context, event domain.PasswordResetRequestedEvent) error
	PublishMentorshipAssigned(ctx context.Context, event domain.MentorshipAssignedEvent) error
}
