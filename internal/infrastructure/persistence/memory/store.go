// Package memory provides in-memory implementations of the user repository and
// the committed-selection store. It backs local runs without Postgres and the
// application/interface tests.
package memory

import (
	"context"
	"sync"

	"github.com/aviato-app/aviato-match/internal/domain/selection"
	"github.com/aviato-app/aviato-match/internal/domain/shared"
	"github.com/aviato-app/aviato-match/internal/domain/user"
)

// UserRepository implements user.Repository over a slice, preserving
// insertion order.
type UserRepository struct {
	mu    sync.RWMutex
	users []user.User
}

// NewUserRepository creates a repository holding copies of users.
func NewUserRepository(users ...user.User) *UserRepository {
	r := &UserRepository{users: make([]user.User, 0, len(users))}
	for _, u := range users {
		r.users = append(r.users, cloneUser(u))
	}
	return r
}

// List returns all users in insertion order.
func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, len(r.users))
	for i, u := range r.users {
		out[i] = cloneUser(u)
	}
	return out, nil
}

// GetByID returns a user by ID.
func (r *UserRepository) GetByID(_ context.Context, id user.ID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

// Save inserts or replaces a user.
func (r *UserRepository) Save(_ context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = cloneUser(*u)
			return nil
		}
	}
	r.users = append(r.users, cloneUser(*u))
	return nil
}

func cloneUser(u user.User) user.User {
	if u.Interests != nil {
		u.Interests = append([]string(nil), u.Interests...)
	}
	if u.MatchPercentage != nil {
		p := *u.MatchPercentage
		u.MatchPercentage = &p
	}
	return u
}

// SelectionStore implements selection.Store in memory.
type SelectionStore struct {
	mu   sync.RWMutex
	sets map[string]selection.Set
}

// NewSelectionStore creates an empty store.
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{sets: make(map[string]selection.Set)}
}

// Committed returns the committed set, or an empty set.
func (s *SelectionStore) Committed(_ context.Context, userID string) (selection.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets[userID].Clone(), nil
}

// Commit replaces the committed set.
func (s *SelectionStore) Commit(_ context.Context, userID string, set selection.Set) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[userID] = set.Clone()
	return nil
}
