package domain

import "time"

// Mentorship pairs a mentor with a mentee.
type Mentorship struct {
	ID        string
	MentorID  string
	MenteeID  string
	Notes     *string
	CreatedAt time.Time
}

// TaskStatus tracks a task through its lifecycle.
type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "TO_DO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Task is a unit of work a mentor assigns to a mentee.
type Task struct {
	ID          string
	Title       string
	Description string
	CreatedBy   string
	AssigneeID  *string
	Status      TaskStatus
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SubmissionStatus tracks mentor review of a task submission.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "PENDING"
	SubmissionStatusApproved SubmissionStatus = "APPROVED"
	SubmissionStatusRejected SubmissionStatus = "REJECTED"
)

// Submission is a mentee's answer to a task.
type Submission struct {
	ID              string
	TaskID          string
	MenteeID        string
	TaskURL         string
	MenteeComment   *string
	MentorComment   *string
	Status          SubmissionStatus
	GradePercentage *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
