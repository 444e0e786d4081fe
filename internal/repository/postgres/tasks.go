package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

// TaskRepository implements port.TaskRepository using PostgreSQL.
type TaskRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTaskRepository wires a PostgreSQL-backed task repository.
func NewTaskRepository(exec pgExecutor) *TaskRepository {
	repo := &TaskRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

var taskColumns = []string{
	"id",
	"title",
	"description",
	"created_by",
	"assignee_id",
	"status",
	"due_at",
	"created_at",
	"updated_at",
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		task   domain.Task
		status string
	)
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.CreatedBy,
		&task.AssigneeID,
		&status,
		&task.DueAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	task.Status = domain.TaskStatus(status)
	return &task, nil
}

// CreateTask inserts a new task row.
func (r *TaskRepository) CreateTask(ctx context.Context, task domain.Task) error {
	stmt, args, err := r.builder.Insert("ccn.tasks").
		Columns(taskColumns...).
		Values(
			task.ID,
			task.Title,
			task.Description,
			task.CreatedBy,
			task.AssigneeID,
			string(task.Status),
			task.DueAt,
			task.CreatedAt,
			task.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert task sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by identifier.
func (r *TaskRepository) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	stmt, args, err := r.builder.Select(taskColumns...).
		From("ccn.tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select task sql: %w", err)
	}

	task, err := scanTask(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if mapped := mapError(err); mapped == repository.ErrNotFound {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return task, nil
}

// ListTasksByAssignee returns the tasks assigned to one mentee.
func (r *TaskRepository) ListTasksByAssignee(ctx context.Context, assigneeID string) ([]domain.Task, error) {
	stmt, args, err := r.builder.Select(taskColumns...).
		From("ccn.tasks").
		Where(squirrel.Eq{"assignee_id": assigneeID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tasks sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask rewrites the mutable columns of a task.
func (r *TaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	stmt, args, err := r.builder.Update("ccn.tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("assignee_id", task.AssigneeID).
		Set("status", string(task.Status)).
		Set("due_at", task.DueAt).
		Set("updated_at", task.UpdatedAt).
		Where(squirrel.Eq{"id": task.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task and, via FK cascade, its submissions.
func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("ccn.tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete task sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var submissionColumns = []string{
	"id",
	"task_id",
	"mentee_id",
	"task_url",
	"mentee_comment",
	"mentor_comment",
	"status",
	"grade_percentage",
	"created_at",
	"updated_at",
}

func scanSubmission(row pgx.Row) (*domain.Submission, error) {
	var (
		sub    domain.Submission
		status string
	)
	if err := row.Scan(
		&sub.ID,
		&sub.TaskID,
		&sub.MenteeID,
		&sub.TaskURL,
		&sub.MenteeComment,
		&sub.MentorComment,
		&status,
		&sub.GradePercentage,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	sub.Status = domain.SubmissionStatus(status)
	return &sub, nil
}

// CreateSubmission inserts a new submission row.
func (r *TaskRepository) CreateSubmission(ctx context.Context, sub domain.Submission) error {
	stmt, args, err := r.builder.Insert("ccn.submissions").
		Columns(submissionColumns...).
		Values(
			sub.ID,
			sub.TaskID,
			sub.MenteeID,
			sub.TaskURL,
			sub.MenteeComment,
			sub.MentorComment,
			string(sub.Status),
			sub.GradePercentage,
			sub.CreatedAt,
			sub.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert submission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a submission by identifier.
func (r *TaskRepository) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	stmt, args, err := r.builder.Select(submissionColumns...).
		From("ccn.submissions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select submission sql: %w", err)
	}

	sub, err := scanSubmission(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if mapped := mapError(err); mapped == repository.ErrNotFound {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}
	return sub, nil
}

// ListSubmissionsByTask returns the submissions for one task, newest first.
func (r *TaskRepository) ListSubmissionsByTask(ctx context.Context, taskID string) ([]domain.Submission, error) {
	stmt, args, err := r.builder.Select(submissionColumns...).
		From("ccn.submissions").
		Where(squirrel.Eq{"task_id": taskID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list submissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]domain.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

// UpdateSubmission rewrites the review columns of a submission.
func (r *TaskRepository) UpdateSubmission(ctx context.Context, sub domain.Submission) error {
	stmt, args, err := r.builder.Update("ccn.submissions").
		Set("mentor_comment", sub.MentorComment).
		Set("status", string(sub.Status)).
		Set("grade_percentage", sub.GradePercentage).
		Set("updated_at", sub.UpdatedAt).
		Where(squirrel.Eq{"id": sub.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update submission sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ port.TaskRepository = (*TaskRepository)(nil)
