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
)

// TokenRepository implements port.TokenRepository using PostgreSQL.
// Single-use consumption relies on DELETE row counts, so concurrent
// validators of the same token resolve to exactly one winner.
type TokenRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTokenRepository wires a PostgreSQL-backed temporary token repository.
func NewTokenRepository(exec pgExecutor) *TokenRepository {
	repo := &TokenRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *TokenRepository) WithTx(tx pgx.Tx) *TokenRepository {
	if tx == nil {
		return r
	}
	return &TokenRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var tokenColumns = []string{
	"id",
	"user_id",
	"token_type",
	"secret_hash",
	"created_at",
	"expires_at",
}

// Create inserts a new temporary token row.
func (r *TokenRepository) Create(ctx context.Context, token domain.TempToken) error {
	stmt, args, err := r.builder.Insert("ccn.temp_tokens").
		Columns(tokenColumns...).
		Values(
			token.ID,
			token.UserID,
			string(token.Type),
			token.SecretHash,
			token.CreatedAt,
			token.ExpiresAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// FindByUserAndType returns the outstanding tokens for one user and flow.
func (r *TokenRepository) FindByUserAndType(ctx context.Context, userID string, tokenType domain.TokenType) ([]domain.TempToken, error) {
	stmt, args, err := r.builder.Select(tokenColumns...).
		From("ccn.temp_tokens").
		Where(squirrel.Eq{"user_id": userID, "token_type": string(tokenType)}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select tokens sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]domain.TempToken, 0)
	for rows.Next() {
		var (
			token     domain.TempToken
			tokenKind string
		)
		if err := rows.Scan(
			&token.ID,
			&token.UserID,
			&tokenKind,
			&token.SecretHash,
			&token.CreatedAt,
			&token.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		token.Type = domain.TokenType(tokenKind)
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return tokens, nil
}

// DeleteIfPresent removes the token with the given id and reports whether
// a row was actually deleted. A false result means another caller already
// consumed it.
func (r *TokenRepository) DeleteIfPresent(ctx context.Context, id string) (bool, error) {
	stmt, args, err := r.builder.Delete("ccn.temp_tokens").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete token sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return false, fmt.Errorf("delete token: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// DeleteByUserAndType removes every outstanding token for one user and flow.
func (r *TokenRepository) DeleteByUserAndType(ctx context.Context, userID string, tokenType domain.TokenType) (int, error) {
	stmt, args, err := r.builder.Delete("ccn.temp_tokens").
		Where(squirrel.Eq{"user_id": userID, "token_type": string(tokenType)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete tokens sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete tokens: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

// DeleteExpired purges tokens whose expiry is before the given instant.
func (r *TokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	stmt, args, err := r.builder.Delete("ccn.temp_tokens").
		Where(squirrel.Lt{"expires_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build purge tokens sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("purge tokens: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

var _ port.TokenRepository = (*TokenRepository)(nil)
