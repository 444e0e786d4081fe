package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

var (
	// ErrAlreadyAssigned indicates the mentor already has this mentee.
	ErrAlreadyAssigned = errors.New("mentee already assigned to mentor")
	// ErrTaskNotFound indicates the referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrSubmissionNotFound indicates the referenced submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
)

// MentorshipService manages mentor-mentee pairings, tasks, and submissions.
type MentorshipService struct {
	mentorships port.MentorshipRepository
	tasks       port.TaskRepository
	users       port.UserRepository
	events      port.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewMentorshipService constructs a MentorshipService.
func NewMentorshipService(
	mentorships port.MentorshipRepository,
	tasks port.TaskRepository,
	users port.UserRepository,
	events port.EventPublisher,
	log *zap.Logger,
) *MentorshipService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MentorshipService{
		mentorships: mentorships,
		tasks:       tasks,
		users:       users,
		events:      events,
		logger:      log,
		now:         time.Now,
	}
}

// WithClock overrides the time source for tests.
func (s *MentorshipService) WithClock(now func() time.Time) *MentorshipService {
	if now != nil {
		s.now = now
	}
	return s
}

// AssignMentor pairs a mentor with a mentee. Admin only.
func (s *MentorshipService) AssignMentor(ctx context.Context, actor domain.User, mentorID, menteeID string) (domain.Mentorship, error) {
	if err := RequireRole(actor, domain.RoleAdmin); err != nil {
		return domain.Mentorship{}, err
	}

	mentor, err := s.users.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Mentorship{}, ErrUserNotFound
		}
		return domain.Mentorship{}, fmt.Errorf("lookup mentor: %w", err)
	}
	if !mentor.HasAnyRole(domain.RoleMentor, domain.RoleAdmin) {
		return domain.Mentorship{}, fmt.Errorf("user %s is not a mentor", mentorID)
	}

	if _, err := s.users.GetByID(ctx, menteeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Mentorship{}, ErrUserNotFound
		}
		return domain.Mentorship{}, fmt.Errorf("lookup mentee: %w", err)
	}

	exists, err := s.mentorships.Exists(ctx, mentorID, menteeID)
	if err != nil {
		return domain.Mentorship{}, fmt.Errorf("check pairing: %w", err)
	}
	if exists {
		return domain.Mentorship{}, ErrAlreadyAssigned
	}

	pairing := domain.Mentorship{
		ID:        uuid.NewString(),
		MentorID:  mentorID,
		MenteeID:  menteeID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.mentorships.Create(ctx, pairing); err != nil {
		return domain.Mentorship{}, fmt.Errorf("create pairing: %w", err)
	}

	event := domain.MentorshipAssignedEvent{
		MentorID:   mentorID,
		MenteeID:   menteeID,
		AssignedAt: pairing.CreatedAt,
	}
	if err := s.events.PublishMentorshipAssigned(ctx, event); err != nil {
		s.logger.Warn("publish mentorship assigned event", zap.Error(err), zap.String("mentor_id", mentorID))
	}

	return pairing, nil
}

// ListMentees returns the pairings for a mentor.
func (s *MentorshipService) ListMentees(ctx context.Context, mentorID string) ([]domain.Mentorship, error) {
	pairings, err := s.mentorships.ListByMentor(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("list mentees: %w", err)
	}
	return pairings, nil
}

// ListMentors returns the pairings for a mentee.
func (s *MentorshipService) ListMentors(ctx context.Context, menteeID string) ([]domain.Mentorship, error) {
	pairings, err := s.mentorships.ListByMentee(ctx, menteeID)
	if err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return pairings, nil
}

// TaskInput carries the fields a mentor sets when creating a task.
type TaskInput struct {
	Title       string
	Description string
	AssigneeID  *string
	DueAt       *time.Time
}

// CreateTask lets mentors and admins create tasks.
func (s *MentorshipService) CreateTask(ctx context.Context, actor domain.User, input TaskInput) (domain.Task, error) {
	if err := RequireRole(actor, domain.RoleMentor, domain.RoleAdmin); err != nil {
		return domain.Task{}, err
	}
	if input.Title == "" {
		return domain.Task{}, fmt.Errorf("title is required")
	}

	now := s.now().UTC()
	task := domain.Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		CreatedBy:   actor.ID,
		AssigneeID:  input.AssigneeID,
		Status:      domain.TaskStatusToDo,
		DueAt:       input.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// GetTask returns a single task.
func (s *MentorshipService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("lookup task: %w", err)
	}
	return task, nil
}

// ListTasks returns the tasks assigned to a mentee.
func (s *MentorshipService) ListTasks(ctx context.Context, assigneeID string) ([]domain.Task, error) {
	tasks, err := s.tasks.ListTasksByAssignee(ctx, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask removes a task. Only its creator or an admin may do so.
func (s *MentorshipService) DeleteTask(ctx context.Context, actor domain.User, id string) error {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("lookup task: %w", err)
	}
	if task.CreatedBy != actor.ID {
		if err := RequireRole(actor, domain.RoleAdmin); err != nil {
			return err
		}
	}
	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// SubmitTask records a mentee's submission for a task and moves the task
// to IN_PROGRESS.
func (s *MentorshipService) SubmitTask(ctx context.Context, actor domain.User, taskID, taskURL string, comment *string) (domain.Submission, error) {
	if err := RequireRole(actor, domain.RoleMentee, domain.RoleMentor); err != nil {
		return domain.Submission{}, err
	}
	if taskURL == "" {
		return domain.Submission{}, fmt.Errorf("task url is required")
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Submission{}, ErrTaskNotFound
		}
		return domain.Submission{}, fmt.Errorf("lookup task: %w", err)
	}

	now := s.now().UTC()
	sub := domain.Submission{
		ID:            uuid.NewString(),
		TaskID:        task.ID,
		MenteeID:      actor.ID,
		TaskURL:       taskURL,
		MenteeComment: comment,
		Status:        domain.SubmissionStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.tasks.CreateSubmission(ctx, sub); err != nil {
		return domain.Submission{}, fmt.Errorf("create submission: %w", err)
	}

	task.Status = domain.TaskStatusInProgress
	task.UpdatedAt = now
	if err := s.tasks.UpdateTask(ctx, *task); err != nil {
		return domain.Submission{}, fmt.Errorf("update task status: %w", err)
	}

	return sub, nil
}

// GradeSubmission lets a mentor approve or reject a submission. Approval
// completes the underlying task.
func (s *MentorshipService) GradeSubmission(ctx context.Context, actor domain.User, submissionID string, status domain.SubmissionStatus, grade *int, comment *string) (domain.Submission, error) {
	if err := RequireRole(actor, domain.RoleMentor, domain.RoleAdmin); err != nil {
		return domain.Submission{}, err
	}
	if status != domain.SubmissionStatusApproved && status != domain.SubmissionStatusRejected {
		return domain.Submission{}, fmt.Errorf("status must be APPROVED or REJECTED")
	}
	if grade != nil && (*grade < 0 || *grade > 100) {
		return domain.Submission{}, fmt.Errorf("grade must be between 0 and 100")
	}

	sub, err := s.tasks.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Submission{}, ErrSubmissionNotFound
		}
		return domain.Submission{}, fmt.Errorf("lookup submission: %w", err)
	}

	now := s.now().UTC()
	sub.Status = status
	sub.GradePercentage = grade
	sub.MentorComment = comment
	sub.UpdatedAt = now
	if err := s.tasks.UpdateSubmission(ctx, *sub); err != nil {
		return domain.Submission{}, fmt.Errorf("update submission: %w", err)
	}

	if status == domain.SubmissionStatusApproved {
		if task, err := s.tasks.GetTask(ctx, sub.TaskID); err == nil {
			task.Status = domain.TaskStatusCompleted
			task.UpdatedAt = now
			if err := s.tasks.UpdateTask(ctx, *task); err != nil {
				s.logger.Warn("complete task after approval", zap.Error(err), zap.String("task_id", task.ID))
			}
		}
	}

	return *sub, nil
}
