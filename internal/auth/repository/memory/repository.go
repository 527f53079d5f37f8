// Package memory provides an in-process credential store with the same
// atomicity guarantees as the Postgres store. It backs the service-level
// concurrency tests and lets the server run without a database in
// development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/HenriqueSagawa/auth-service/internal/auth/domain"
	autherror "github.com/HenriqueSagawa/auth-service/internal/errors"
)

type MemoryRepository struct {
	mu            sync.Mutex
	usersByEmail  map[string]*domain.User
	usersByID     map[string]*domain.User
	refreshTokens map[string]*domain.RefreshToken
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		usersByEmail:  make(map[string]*domain.User),
		usersByID:     make(map[string]*domain.User),
		refreshTokens: make(map[string]*domain.RefreshToken),
	}
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyUser(r.usersByEmail[email]), nil
}

func (r *MemoryRepository) GetByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyUser(r.usersByID[userID]), nil
}

// Create checks uniqueness and inserts under one lock, mirroring the unique
// constraint of the Postgres store.
func (r *MemoryRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.usersByEmail[user.Email]; exists {
		return autherror.ErrEmailAlreadyInUse
	}
	stored := copyUser(user)
	r.usersByEmail[stored.Email] = stored
	r.usersByID[stored.ID] = stored
	return nil
}

func (r *MemoryRepository) IncrementLoginAttempts(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.usersByID[userID]
	if !ok {
		return 0, autherror.ErrStoreUnavailable
	}
	user.LoginAttempts++
	return user.LoginAttempts, nil
}

func (r *MemoryRepository) LockUser(_ context.Context, userID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.usersByID[userID]
	if !ok {
		return autherror.ErrStoreUnavailable
	}
	lockedUntil := until
	user.LockedUntil = &lockedUntil
	user.LoginAttempts = 0
	return nil
}

func (r *MemoryRepository) ResetLoginState(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.usersByID[userID]
	if !ok {
		return autherror.ErrStoreUnavailable
	}
	user.LoginAttempts = 0
	user.LockedUntil = nil
	return nil
}

func (r *MemoryRepository) StoreRefreshToken(_ context.Context, rt *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *rt
	r.refreshTokens[stored.Token] = &stored
	return nil
}

func (r *MemoryRepository) GetRefreshToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rt, ok := r.refreshTokens[token]
	if !ok {
		return nil, nil
	}
	found := *rt
	return &found, nil
}

func (r *MemoryRepository) DeleteRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refreshTokens, token)
	return nil
}

func copyUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	copied := *user
	if user.LockedUntil != nil {
		lockedUntil := *user.LockedUntil
		copied.LockedUntil = &lockedUntil
	}
	return &copied
}
