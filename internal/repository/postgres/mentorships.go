package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

// MentorshipRepository implements port.MentorshipRepository using PostgreSQL.
type MentorshipRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewMentorshipRepository wires a PostgreSQL-backed mentorship repository.
func NewMentorshipRepository(exec pgExecutor) *MentorshipRepository {
	repo := &MentorshipRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

var mentorshipColumns = []string{
	"id",
	"mentor_id",
	"mentee_id",
	"notes",
	"created_at",
}

// Create inserts a new mentor-mentee pairing.
func (r *MentorshipRepository) Create(ctx context.Context, m domain.Mentorship) error {
	stmt, args, err := r.builder.Insert("ccn.mentorships").
		Columns(mentorshipColumns...).
		Values(m.ID, m.MentorID, m.MenteeID, m.Notes, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert mentorship sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if mapped := mapError(err); mapped == repository.ErrConflict {
			return mapped
		}
		return fmt.Errorf("insert mentorship: %w", err)
	}
	return nil
}

func (r *MentorshipRepository) list(ctx context.Context, where squirrel.Eq) ([]domain.Mentorship, error) {
	stmt, args, err := r.builder.Select(mentorshipColumns...).
		From("ccn.mentorships").
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list mentorships sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query mentorships: %w", err)
	}
	defer rows.Close()

	pairings := make([]domain.Mentorship, 0)
	for rows.Next() {
		var m domain.Mentorship
		if err := rows.Scan(&m.ID, &m.MentorID, &m.MenteeID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mentorship: %w", err)
		}
		pairings = append(pairings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mentorships: %w", err)
	}
	return pairings, nil
}

// ListByMentor returns the pairings in which the user mentors.
func (r *MentorshipRepository) ListByMentor(ctx context.Context, mentorID string) ([]domain.Mentorship, error) {
	return r.list(ctx, squirrel.Eq{"mentor_id": mentorID})
}

// ListByMentee returns the pairings in which the user is mentored.
func (r *MentorshipRepository) ListByMentee(ctx context.Context, menteeID string) ([]domain.Mentorship, error) {
	return r.list(ctx, squirrel.Eq{"mentee_id": menteeID})
}

// Exists reports whether the pairing already exists.
func (r *MentorshipRepository) Exists(ctx context.Context, mentorID, menteeID string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("ccn.mentorships").
		Where(squirrel.Eq{"mentor_id": mentorID, "mentee_id": menteeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build mentorship exists sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if mapError(err) == repository.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("check mentorship exists: %w", err)
	}
	return true, nil
}

var _ port.MentorshipRepository = (*MentorshipRepository)(nil)
