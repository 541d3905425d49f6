package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"storefront/internal/model"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// UserRepository defines credential storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	mu      sync.RWMutex
	users   []model.User
	byID    map[string]int
	byEmail map[string]int
}

// NewUserRepository builds an in-memory repository.
func NewUserRepository() UserRepository {
	return &userRepository{
		byID:    make(map[string]int),
		byEmail: make(map[string]int),
	}
}

// Create appends the user. Uniqueness of id and email is the caller's
// responsibility; on a duplicate the earliest record keeps winning lookups.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := len(r.users)
	r.users = append(r.users, *user)
	if _, ok := r.byID[user.ID]; !ok {
		r.byID[user.ID] = idx
	}
	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; !ok {
		r.byEmail[email] = idx
	}
	return nil
}

// FindByID finds a user by exact id.
func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.users[idx]
	return &user, nil
}

// FindByEmail finds a user by email, ignoring case.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.users[idx]
	return &user, nil
}
