package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles every PostgreSQL-backed store for wiring.
type Repositories struct {
	Users       *UserRepository
	Tokens      *TokenRepository
	Mentorships *MentorshipRepository
	Tasks       *TaskRepository
}

// NewRepositories constructs all repositories over one shared pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(pool),
		Tokens:      NewTokenRepository(pool),
		Mentorships: NewMentorshipRepository(pool),
		Tasks:       NewTaskRepository(pool),
	}
}
