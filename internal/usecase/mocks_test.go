package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/infra/security"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/repository"
)

func newTestHashPool(t *testing.T) *security.HashPool {
	t.Helper()
	hasher, err := security.NewBcryptHasher(4)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	pool := security.NewHashPool(hasher, 4, 64, nil)
	t.Cleanup(pool.Close)
	return pool
}

func mustHash(t *testing.T, pool *security.HashPool, plaintext string) string {
	t.Helper()
	digest, err := pool.Hash(context.Background(), plaintext)
	if err != nil {
		t.Fatalf("hash %q: %v", plaintext, err)
	}
	return digest
}

type userRepoMock struct {
	mu          sync.Mutex
	byEmail     map[string]domain.User
	byID        map[string]domain.User
	created     []domain.User
	verifiedID  string
	verifiedAt  time.Time
	updatedID   string
	updatedHash string
	updatedAt   time.Time
	profiles    []domain.User
	deletedID   string
}

func newUserRepoMock(users ...domain.User) *userRepoMock {
	m := &userRepoMock{
		byEmail: map[string]domain.User{},
		byID:    map[string]domain.User{},
	}
	for _, u := range users {
		m.byEmail[u.Email] = u
		m.byID[u.ID] = u
	}
	return m
}

func (m *userRepoMock) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[user.Email]; exists {
		return repository.ErrConflict
	}
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	m.created = append(m.created, user)
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.byID[id]; ok {
		u := user
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.byEmail[email]; ok {
		u := user
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) List(context.Context, int, int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		users = append(users, u)
	}
	return users, nil
}

func (m *userRepoMock) UpdateProfile(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = append(m.profiles, user)
	m.byID[user.ID] = user
	m.byEmail[user.Email] = user
	return nil
}

func (m *userRepoMock) MarkEmailVerified(_ context.Context, id string, verifiedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.ConfirmEmail()
	user.UpdatedAt = verifiedAt
	m.byID[id] = user
	m.byEmail[user.Email] = user
	m.verifiedID = id
	m.verifiedAt = verifiedAt
	return nil
}

func (m *userRepoMock) UpdatePassword(_ context.Context, id string, passwordHash string, changedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.SetPasswordHash(passwordHash)
	user.UpdatedAt = changedAt
	m.byID[id] = user
	m.byEmail[user.Email] = user
	m.updatedID = id
	m.updatedHash = passwordHash
	m.updatedAt = changedAt
	return nil
}

func (m *userRepoMock) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byEmail, user.Email)
	m.deletedID = id
	return nil
}

type tokenRepoMock struct {
	mu        sync.Mutex
	tokens    map[string]domain.TempToken
	createErr error
	findErr   error
}

func newTokenRepoMock() *tokenRepoMock {
	return &tokenRepoMock{tokens: map[string]domain.TempToken{}}
}

func (m *tokenRepoMock) Create(_ context.Context, token domain.TempToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.ID] = token
	return nil
}

func (m *tokenRepoMock) FindByUserAndType(_ context.Context, userID string, tokenType domain.TokenType) ([]domain.TempToken, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TempToken
	for _, token := range m.tokens {
		if token.UserID == userID && token.Type == tokenType {
			out = append(out, token)
		}
	}
	return out, nil
}

func (m *tokenRepoMock) DeleteIfPresent(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[id]; !ok {
		return false, nil
	}
	delete(m.tokens, id)
	return true, nil
}

func (m *tokenRepoMock) DeleteByUserAndType(_ context.Context, userID string, tokenType domain.TokenType) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, token := range m.tokens {
		if token.UserID == userID && token.Type == tokenType {
			delete(m.tokens, id)
			removed++
		}
	}
	return removed, nil
}

func (m *tokenRepoMock) DeleteExpired(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, token := range m.tokens {
		if token.ExpiresAt.Before(before) {
			delete(m.tokens, id)
			removed++
		}
	}
	return removed, nil
}

func (m *tokenRepoMock) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

type publisherMock struct {
	mu              sync.Mutex
	registered      []domain.UserRegisteredEvent
	emailVerified   []domain.EmailVerifiedEvent
	passwordChanged []domain.PasswordChangedEvent
	resetRequested  []domain.PasswordResetRequestedEvent
	assigned        []domain.MentorshipAssignedEvent
}

func (m *publisherMock) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered = append(m.registered, event)
	return nil
}

func (m *publisherMock) PublishEmailVerified(_ context.Context, event domain.EmailVerifiedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailVerified = append(m.emailVerified, event)
	return nil
}

func (m *publisherMock) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passwordChanged = append(m.passwordChanged, event)
	return nil
}

func (m *publisherMock) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetRequested = append(m.resetRequested, event)
	return nil
}

func (m *publisherMock) PublishMentorshipAssigned(_ context.Context, event domain.MentorshipAssignedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assigned = append(m.assigned, event)
	return nil
}

type mentorshipRepoMock struct {
	mu       sync.Mutex
	pairings []domain.Mentorship
}

func (m *mentorshipRepoMock) Create(_ context.Context, pairing domain.Mentorship) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairings = append(m.pairings, pairing)
	return nil
}

func (m *mentorshipRepoMock) ListByMentor(_ context.Context, mentorID string) ([]domain.Mentorship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Mentorship
	for _, p := range m.pairings {
		if p.MentorID == mentorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mentorshipRepoMock) ListByMentee(_ context.Context, menteeID string) ([]domain.Mentorship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Mentorship
	for _, p := range m.pairings {
		if p.MenteeID == menteeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mentorshipRepoMock) Exists(_ context.Context, mentorID, menteeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pairings {
		if p.MentorID == mentorID && p.MenteeID == menteeID {
			return true, nil
		}
	}
	return false, nil
}

type taskRepoMock struct {
	mu          sync.Mutex
	tasks       map[string]domain.Task
	submissions map[string]domain.Submission
}

func newTaskRepoMock() *taskRepoMock {
	return &taskRepoMock{
		tasks:       map[string]domain.Task{},
		submissions: map[string]domain.Submission{},
	}
}

func (m *taskRepoMock) CreateTask(_ context.Context, task domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = task
	return nil
}

func (m *taskRepoMock) GetTask(_ context.Context, id string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task, ok := m.tasks[id]; ok {
		t := task
		return &t, nil
	}
	return nil, repository.ErrNotFound
}

func (m *taskRepoMock) ListTasksByAssignee(_ context.Context, assigneeID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Task
	for _, task := range m.tasks {
		if task.AssigneeID != nil && *task.AssigneeID == assigneeID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *taskRepoMock) UpdateTask(_ context.Context, task domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return repository.ErrNotFound
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *taskRepoMock) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *taskRepoMock) CreateSubmission(_ context.Context, sub domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[sub.ID] = sub
	return nil
}

func (m *taskRepoMock) GetSubmission(_ context.Context, id string) (*domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.submissions[id]; ok {
		s := sub
		return &s, nil
	}
	return nil, repository.ErrNotFound
}

func (m *taskRepoMock) ListSubmissionsByTask(_ context.Context, taskID string) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Submission
	for _, sub := range m.submissions {
		if sub.TaskID == taskID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *taskRepoMock) UpdateSubmission(_ context.Context, sub domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.submissions[sub.ID]; !ok {
		return repository.ErrNotFound
	}
	m.submissions[sub.ID] = sub
	return nil
}
