package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without a broker.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs ccn.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         event.Email,
		"first_name":    event.FirstName,
		"last_name":     event.LastName,
		"role":          event.Role,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishEmailVerified logs ccn.user.email.verified events.
func (p *StubPublisher) PublishEmailVerified(_ context.Context, event domain.EmailVerifiedEvent) error {
	payload := map[string]any{
		"user_id":     event.UserID,
		"email":       event.Email,
		"verified_at": event.VerifiedAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("user.email.verified", event.UserID, event.VerifiedAt, payload)
	return nil
}

// PublishPasswordChanged logs ccn.user.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"user_id":    event.UserID,
		"changed_at": event.ChangedAt,
		"changed_by": event.ChangedBy,
		"metadata":   event.Metadata,
	}
	p.logEvent("user.password.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishPasswordResetRequested logs ccn.user.password.reset_requested events.
func (p *StubPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	payload := map[string]any{
		"user_id":            event.UserID,
		"requested_at":       event.RequestedAt,
		"masked_destination": event.MaskedDestination,
		"expires_at":         event.ExpiresAt,
		"metadata":           event.Metadata,
	}
	p.logEvent("user.password.reset_requested", event.UserID, event.RequestedAt, payload)
	return nil
}

// PublishMentorshipAssigned logs ccn.mentorship.assigned events.
func (p *StubPublisher) PublishMentorshipAssigned(_ context.Context, event domain.MentorshipAssignedEvent) error {
	payload := map[string]any{
		"mentor_id":   event.MentorID,
		"mentee_id":   event.MenteeID,
		"assigned_at": event.AssignedAt,
		"metadata":    event.Metadata,
	}
	p.logEvent("mentorship.assigned", event.MenteeID, event.AssignedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
