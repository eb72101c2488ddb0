package repository

import (
	"context"
	"sync"
	"time"

	"contacts-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryUsersRepository supports auth when DB is disabled.
type MemoryUsersRepository struct {
	mu      sync.RWMutex
	users   map[string]domain.User // userID -> User
	byEmail map[string]string      // email -> userID
}

func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{
		users:   map[string]domain.User{},
		byEmail: map[string]string{},
	}
}

var _ UsersRepository = (*MemoryUsersRepository)(nil)

func (r *MemoryUsersRepository) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, storeErr("create user", errDuplicateEmail)
	}

	u := *user
	u.UserID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	r.users[u.UserID] = u
	r.byEmail[u.Email] = u.UserID
	return &u, nil
}

func (r *MemoryUsersRepository) GetUser(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUsersRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := r.users[id]
	return &u, nil
}
