package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

func TestUserRepositoryGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows(userColumns).
		AddRow(
			"user-1", "Ada", "Obi", "ada@example.com",
			(*string)(nil), (*string)(nil), (*string)(nil), []string{"go"},
			"$2a$10$hash", "MENTEE", true, 0, (*time.Time)(nil), now, now,
		)

	mock.ExpectQuery(`SELECT .+ FROM ccn\.users WHERE email = \$1`).
		WithArgs("ada@example.com").
		WillReturnRows(rows)

	repo := NewUserRepository(mock)
	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail returned error: %v", err)
	}
	if user.ID != "user-1" || user.Role != domain.RoleMentee || !user.IsEmailVerified {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryGetByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM ccn\.users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mock)
	if _, err := repo.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryCreateConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO ccn\.users`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	repo := NewUserRepository(mock)
	user := domain.User{ID: "user-1", Email: "dup@example.com", Role: domain.RoleMentee}
	if err := repo.Create(context.Background(), user); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryUpdatePasswordMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create mock pool: %v", err)
	}
	defer mock.Close()

	changedAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE ccn\.users SET password_hash = \$1, updated_at = \$2 WHERE id = \$3`).
		WithArgs("$2a$10$new", changedAt, "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewUserRepository(mock)
	if err := repo.UpdatePassword(context.Background(), "ghost", "$2a$10$new", changedAt); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
