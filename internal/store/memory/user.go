package memory

import (
	"context"
	"strings"
	"time"

	"leadcrm/backend/internal/model"
	"leadcrm/backend/internal/store"
)

func (s *Store) CreateUser(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.TrimSpace(u.Email)
	if email == "" {
		return model.User{}, errWithCode("email_required")
	}

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, email) {
			return model.User{}, store.ErrConflict
		}
	}

	u.ID = s.userSeq.next()
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.TrimSpace(email)
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}
