package port

import (
	"context"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
)

// MentorshipRepository persists mentor-mentee pairings.
type MentorshipRepository interface {
	Create(ctx context.Context, m domain.Mentorship) error
	ListByMentor(ctx context.Context, mentorID string) ([]domain.Mentorship, error)
	ListByMentee(ctx context.Context, menteeID string) ([]domain.Mentorship, error)
	Exists(ctx context.Context, mentorID, menteeID string) (bool, error)
}

// TaskRepository persists tasks and their submissions.
type TaskRepository interface {
	CreateTask(ctx context.Context, task domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasksByAssignee(ctx context.Context, assigneeID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) error
	DeleteTask(ctx context.Context, id string) error
	CreateSubmission(ctx context.Context, sub domain.Submission) error
	GetSubmission(ctx context.Context, id string) (*domain.Submission, error)
	ListSubmissionsByTask(ctx context.Context, taskID string) ([]domain.Submission, error)
	UpdateSubmission(ctx context.Context, sub domain.Submission) error
}
