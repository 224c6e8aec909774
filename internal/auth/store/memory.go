// Package store provides the user persistence implementations: an in-memory
// store for local development and tests, and a PostgreSQL store for
// production.
//
// Email uniqueness is enforced here, same as the patient store: the in-memory
// store holds its lock across the check-and-insert and the PostgreSQL store
// relies on a UNIQUE index.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/shrivathsaJoisa/patient-repository/internal/auth/models"
	id "github.com/shrivathsaJoisa/patient-repository/pkg/domain"
	"github.com/shrivathsaJoisa/patient-repository/pkg/platform/sentinel"
)

// InMemory keeps users in a map guarded by a single mutex.
type InMemory struct {
	mu    sync.RWMutex
	users map[id.UserID]models.User
}

// NewInMemory creates an empty in-memory user store.
func NewInMemory() *InMemory {
	return &InMemory{users: make(map[id.UserID]models.User)}
}

// FindByEmail returns the user with the given email or sentinel.ErrNotFound.
func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// CreateIfEmailAvailable assigns an ID and inserts the user, or returns
// sentinel.ErrAlreadyUsed when the email is taken.
func (s *InMemory) CreateIfEmailAvailable(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return sentinel.ErrAlreadyUsed
		}
	}
	u.ID = id.UserID(uuid.New())
	s.users[u.ID] = *u
	return nil
}
