package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/neo-rgalvez/taskflow/internal/core/domain"
	"github.com/neo-rgalvez/taskflow/internal/repository"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[string]domain.User
	byEmail   map[string]domain.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]domain.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	email := domain.NormalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return repository.ErrDuplicate
	}
	r.byID[user.ID] = user
	r.byEmail[email] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

type fakeSessionRepo struct {
	mu          sync.Mutex
	byTokenHash map[string]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{byTokenHash: make(map[string]domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTokenHash[session.TokenHash] = session
	return nil
}

func (r *fakeSessionRepo) GetByTokenHash(_ context.Context, tokenHash string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.byTokenHash[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := session
	return &copied, nil
}

func (r *fakeSessionRepo) DeleteByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byTokenHash, tokenHash)
	return nil
}

func (r *fakeSessionRepo) DeleteAllForUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for hash, session := range r.byTokenHash {
		if session.UserID == userID {
			delete(r.byTokenHash, hash)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context, reference time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for hash, session := range r.byTokenHash {
		if !session.ExpiresAt.After(reference) {
			delete(r.byTokenHash, hash)
			deleted++
		}
	}
	return deleted, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (p *fakePublisher) Publish(_ context.Context, event domain.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, 0, len(p.events))
	for _, event := range p.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, encoded string) bool {
	return encoded == "hashed:"+password
}
