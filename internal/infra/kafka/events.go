package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	UserID    string           `json:"user_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		UserID:    userID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes ccn.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string         `json:"user_id"`
		Email        string         `json:"email"`
		FirstName    string         `json:"first_name"`
		LastName     string         `json:"last_name"`
		Role         string         `json:"role"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		UserID:       event.UserID,
		Email:        event.Email,
		FirstName:    event.FirstName,
		LastName:     event.LastName,
		Role:         event.Role,
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.registered", event.UserID, event.RegisteredAt, payload)
}

// PublishEmailVerified publishes ccn.user.email.verified events.
func (p *EventPublisher) PublishEmailVerified(ctx context.Context, event domain.EmailVerifiedEvent) error {
	payload := struct {
		UserID     string         `json:"user_id"`
		Email      string         `json:"email"`
		VerifiedAt time.Time      `json:"verified_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		UserID:     event.UserID,
		Email:      event.Email,
		VerifiedAt: event.VerifiedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.email.verified", event.UserID, event.VerifiedAt, payload)
}

// PublishPasswordChanged publishes ccn.user.password.changed events.
func (p *EventPublisher) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := struct {
		UserID    string         `json:"user_id"`
		ChangedAt time.Time      `json:"changed_at"`
		ChangedBy string         `json:"changed_by"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		UserID:    event.UserID,
		ChangedAt: event.ChangedAt.UTC(),
		ChangedBy: event.ChangedBy,
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.password.changed", event.UserID, event.ChangedAt, payload)
}

// PublishPasswordResetRequested publishes ccn.user.password.reset_requested events.
func (p *EventPublisher) PublishPasswordResetRequested(ctx context.Context, event domain.PasswordResetRequestedEvent) error {
	payload := struct {
		UserID            string         `json:"user_id"`
		RequestedAt       time.Time      `json:"requested_at"`
		MaskedDestination string         `json:"masked_destination,omitempty"`
		ExpiresAt         time.Time      `json:"expires_at"`
		Metadata          map[string]any `json:"metadata,omitempty"`
	}{
		UserID:            event.UserID,
		RequestedAt:       event.RequestedAt.UTC(),
		MaskedDestination: event.MaskedDestination,
		ExpiresAt:         event.ExpiresAt.UTC(),
		Metadata:          event.Metadata,
	}

	return p.publish(ctx, event.EventID, "user.password.reset_requested", event.UserID, event.RequestedAt, payload)
}

// PublishMentorshipAssigned publishes ccn.mentorship.assigned events.
func (p *EventPublisher) PublishMentorshipAssigned(ctx context.Context, event domain.MentorshipAssignedEvent) error {
	payload := struct {
		MentorID   string         `json:"mentor_id"`
		MenteeID   string         `json:"mentee_id"`
		AssignedAt time.Time      `json:"assigned_at"`
		Metadata   map[string]any `json:"metadata,omitempty"`
	}{
		MentorID:   event.MentorID,
		MenteeID:   event.MenteeID,
		AssignedAt: event.AssignedAt.UTC(),
		Metadata:   event.Metadata,
	}

	return p.publish(ctx, event.EventID, "mentorship.assigned", event.MenteeID, event.AssignedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
