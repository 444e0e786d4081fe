package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// NotificationDispatcher fans out account-flow credentials to downstream
// notifiers (email delivery lives outside this service).
type NotificationDispatcher interface {
	SendEmailVerification(ctx context.Context, payload EmailVerificationNotification) error
	SendPasswordReset(ctx context.Context, payload PasswordResetNotification) error
}

// EmailVerificationNotification captures data needed to deliver a
// verification token.
type EmailVerificationNotification struct {
	UserID   string
	Email    string
	DevToken string
	Expires  time.Time
}

// PasswordResetNotification captures data needed to deliver a reset token.
type PasswordResetNotification struct {
	UserID   string
	Email    string
	DevToken string
	Expires  time.Time
}

type noopDispatcher struct{}

func (noopDispatcher) SendEmailVerification(ctx context.Context, payload EmailVerificationNotification) error {
	return nil
}

func (noopDispatcher) SendPasswordReset(ctx context.Context, payload PasswordResetNotification) error {
	return nil
}

// LoggingNotificationDispatcher records credential dispatch events for
// observability without delivering them.
type LoggingNotificationDispatcher struct {
	logger *zap.Logger
}

// NewLoggingNotificationDispatcher constructs a notification dispatcher
// backed by structured logging.
func NewLoggingNotificationDispatcher(logger *zap.Logger) NotificationDispatcher {
	if logger == nil {
		return noopDispatcher{}
	}
	return &LoggingNotificationDispatcher{logger: logger}
}

func (d *LoggingNotificationDispatcher) SendEmailVerification(ctx context.Context, payload EmailVerificationNotification) error {
	if d == nil || d.logger == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("user_id", payload.UserID),
		zap.String("email", payload.Email),
		zap.Time("expires_at", payload.Expires),
	}
	if payload.DevToken != "" {
		fields = append(fields, zap.String("dev_token", payload.DevToken))
	}

	d.logger.Info("dispatch email verification", fields...)
	return nil
}

func (d *LoggingNotificationDispatcher) SendPasswordReset(ctx context.Context, payload PasswordResetNotification) error {
	if d == nil || d.logger == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("user_id", payload.UserID),
		zap.String("email", payload.Email),
		zap.Time("expires_at", payload.Expires),
	}
	if payload.DevToken != "" {
		fields = append(fields, zap.String("dev_token", payload.DevToken))
	}

	d.logger.Info("dispatch password reset", fields...)
	return nil
}
