package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/port"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(exec pgExecutor) *UserRepository {
	repo := &UserRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	if tx == nil {
		return r
	}
	return &UserRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var userColumns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone_number",
	"photo_url",
	"description",
	"technologies",
	"password_hash",
	"role",
	"is_email_verified",
	"failed_sign_in_attempts",
	"lockout_end",
	"created_at",
	"updated_at",
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PhoneNumber,
		&user.PhotoURL,
		&user.Description,
		&user.Technologies,
		&user.PasswordHash,
		&role,
		&user.IsEmailVerified,
		&user.FailedSignInAttempts,
		&user.LockoutEnd,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	user.Role = domain.ParseRole(role)
	return &user, nil
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Insert("ccn.users").
		Columns(userColumns...).
		Values(
			user.ID,
			user.FirstName,
			user.LastName,
			user.Email,
			user.PhoneNumber,
			user.PhotoURL,
			user.Description,
			user.Technologies,
			user.PasswordHash,
			string(user.Role),
			user.IsEmailVerified,
			user.FailedSignInAttempts,
			user.LockoutEnd,
			user.CreatedAt,
			user.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if mapped := mapError(err); mapped == repository.ErrConflict {
			return mapped
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From("ccn.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	user, err := scanUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if mapped := mapError(err); mapped == repository.ErrNotFound {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by its lowercased email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.builder.Select(userColumns...).
		From("ccn.users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user by email sql: %w", err)
	}

	user, err := scanUser(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if mapped := mapError(err); mapped == repository.ErrNotFound {
			return nil, mapped
		}
		return nil, fmt.Errorf("scan user by email: %w", err)
	}
	return user, nil
}

// List returns users ordered by registration time, newest first.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := r.builder.Select(userColumns...).
		From("ccn.users").
		OrderBy("created_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	if offset > 0 {
		query = query.Offset(uint64(offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// UpdateProfile modifies the mutable profile fields of a user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user domain.User) error {
	stmt, args, err := r.builder.Update("ccn.users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("phone_number", user.PhoneNumber).
		Set("photo_url", user.PhotoURL).
		Set("description", user.Description).
		Set("technologies", user.Technologies).
		Set("role", string(user.Role)).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkEmailVerified flips the verification flag.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string, verifiedAt time.Time) error {
	stmt, args, err := r.builder.Update("ccn.users").
		Set("is_email_verified", true).
		Set("updated_at", verifiedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark email verified sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored credential digest.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.Update("ccn.users").
		Set("password_hash", passwordHash).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a user row.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("ccn.users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ port.UserRepository = (*UserRepository)(nil)
