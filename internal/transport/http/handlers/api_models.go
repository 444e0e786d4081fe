package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// UserSummary describes the public view of an account.
type UserSummary struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	PhoneNumber     *string   `json:"phone_number,omitempty"`
	PhotoURL        *string   `json:"photo_url,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Technologies    []string  `json:"technologies,omitempty"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

func toUserSummary(user domain.User) UserSummary {
	return UserSummary{
		ID:              user.ID,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Email:           user.Email,
		PhoneNumber:     user.PhoneNumber,
		PhotoURL:        user.PhotoURL,
		Description:     user.Description,
		Technologies:    user.Technologies,
		Role:            string(user.Role),
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
	}
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserSummary `json:"user"`
}

// RegistrationRequest defines the account registration payload.
type RegistrationRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

// RegistrationResponse contains registration results and next steps.
type RegistrationResponse struct {
	Message  string      `json:"message"`
	User     UserSummary `json:"user"`
	DevToken string      `json:"dev_token,omitempty"`
}

// VerifyEmailRequest consumes an email verification token.
type VerifyEmailRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Token  string `json:"token" binding:"required"`
}

// ResendVerificationRequest asks for a fresh verification token.
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPasswordRequest initiates a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest consumes a reset token and sets a new password.
type ResetPasswordRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ProfileUpdateRequest carries the editable profile fields.
type ProfileUpdateRequest struct {
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	PhoneNumber  *string  `json:"phone_number"`
	PhotoURL     *string  `json:"photo_url"`
	Description  *string  `json:"description"`
	Technologies []string `json:"technologies"`
}

// AssignMentorRequest pairs a mentor with a mentee.
type AssignMentorRequest struct {
	MentorID string `json:"mentor_id" binding:"required"`
	MenteeID string `json:"mentee_id" binding:"required"`
}

// MentorshipResponse describes a mentor-mentee pairing.
type MentorshipResponse struct {
	ID        string    `json:"id"`
	MentorID  string    `json:"mentor_id"`
	MenteeID  string    `json:"mentee_id"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toMentorshipResponse(m domain.Mentorship) MentorshipResponse {
	return MentorshipResponse{
		ID:        m.ID,
		MentorID:  m.MentorID,
		MenteeID:  m.MenteeID,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
}

// TaskRequest creates or updates a task.
type TaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssigneeID  *string    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

// TaskResponse describes a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedBy   string     `json:"created_by"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	Status      string     `json:"status"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CreatedBy:   task.CreatedBy,
		AssigneeID:  task.AssigneeID,
		Status:      string(task.Status),
		DueAt:       task.DueAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// SubmitTaskRequest records a mentee's answer to a task.
type SubmitTaskRequest struct {
	TaskURL string  `json:"task_url" binding:"required,url"`
	Comment *string `json:"comment"`
}

// GradeSubmissionRequest reviews a submission.
type GradeSubmissionRequest struct {
	Status  string  `json:"status" binding:"required"`
	Grade   *int    `json:"grade"`
	Comment *string `json:"comment"`
}

// SubmissionResponse describes a task submission.
type SubmissionResponse struct {
	ID              string    `json:"id"`
	TaskID          string    `json:"task_id"`
	MenteeID        string    `json:"mentee_id"`
	TaskURL         string    `json:"task_url"`
	MenteeComment   *string   `json:"mentee_comment,omitempty"`
	MentorComment   *string   `json:"mentor_comment,omitempty"`
	Status          string    `json:"status"`
	GradePercentage *int      `json:"grade_percentage,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toSubmissionResponse(sub domain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:              sub.ID,
		TaskID:          sub.TaskID,
		MenteeID:        sub.MenteeID,
		TaskURL:         sub.TaskURL,
		MenteeComment:   sub.MenteeComment,
		MentorComment:   sub.MentorComment,
		Status:          string(sub.Status),
		GradePercentage: sub.GradePercentage,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
}
