package store

import (
	"context"
	"errors"

	"leadcrm/backend/internal/model"
)

var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")
)

// LeadFilter selects a window of leads ordered by ID ascending.
// A zero Limit returns every lead after Offset.
type LeadFilter struct {
	Offset int
	Limit  int
}

type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	CountLeads(ctx context.Context) (int, error)
	ListLeads(ctx context.Context, f LeadFilter) ([]model.Lead, error)
	GetLead(ctx context.Context, id int64) (model.Lead, error)
	CreateLead(ctx context.Context, l model.Lead) (model.Lead, error)
	UpdateLead(ctx context.Context, l model.Lead) (model.Lead, error)
	DeleteLead(ctx context.Context, id int64) error
}
