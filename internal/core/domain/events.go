package domain

import "time"

// UserRegisteredEvent represents the payload for ccn.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	FirstName    string
	LastName     string
	Role         string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// EmailVerifiedEvent represents the payload for ccn.user.email.verified messages.
type EmailVerifiedEvent struct {
	EventID    string
	UserID     string
	Email      string
	VerifiedAt time.Time
	Metadata   map[string]any
}

// PasswordChangedEvent represents the payload for ccn.user.password.changed messages.
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
	ChangedBy string
	Metadata  map[string]any
}

// PasswordResetRequestedEvent represents the payload for ccn.user.password.reset_requested messages.
type PasswordResetRequestedEvent struct {
	EventID           string
	UserID            string
	RequestedAt       time.Time
	MaskedDestination string
	ExpiresAt         time.Time
	Metadata          map[string]any
}

// MentorshipAssignedEvent represents the payload for ccn.mentorship.assigned messages.
type MentorshipAssignedEvent struct {
	EventID    string
	MentorID   string
	MenteeID   string
	AssignedAt time.Time
	Metadata   map[string]any
}
