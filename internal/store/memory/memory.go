package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"leadcrm/backend/internal/model"
	"leadcrm/backend/internal/store"
)

// Store keeps users and leads in process memory. It is used when no
// DATABASE_URL is configured and as the default store in handler tests.
type Store struct {
	mu sync.Mutex

	users map[int64]model.User
	leads map[int64]model.Lead

	userSeq sequence
	leadSeq sequence
}

func NewStore() *Store {
	return &Store{
		users: make(map[int64]model.User),
		leads: make(map[int64]model.Lead),
	}
}

type errWithCode string

func (e errWithCode) Error() string { return string(e) }

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) CountLeads(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.leads), nil
}

func (s *Store) ListLeads(_ context.Context, f store.LeadFilter) ([]model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []model.Lead{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) GetLead(_ context.Context, id int64) (model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[id]
	if !ok {
		return model.Lead{}, store.ErrNotFound
	}
	return l, nil
}

func (s *Store) CreateLead(_ context.Context, l model.Lead) (model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	l.ID = s.leadSeq.next()
	l.CreatedAt = now
	l.UpdatedAt = now
	s.leads[l.ID] = l
	return l, nil
}

func (s *Store) UpdateLead(_ context.Context, l model.Lead) (model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.leads[l.ID]
	if !ok {
		return model.Lead{}, store.ErrNotFound
	}

	existing.Name = l.Name
	existing.Email = l.Email
	existing.Phone = l.Phone
	existing.Status = l.Status
	existing.UpdatedAt = time.Now().UTC()
	s.leads[l.ID] = existing
	return existing, nil
}

func (s *Store) DeleteLead(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leads[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.leads, id)
	return nil
}
