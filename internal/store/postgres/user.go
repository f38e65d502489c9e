package postgres

import (
	"context"
	"errors"
	"strings"

	"leadcrm/backend/internal/model"
	"leadcrm/backend/internal/store"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	var out model.User
	err := s.pool.QueryRow(ctx, `
		insert into users (email, password_hash)
		values ($1, $2)
		returning id, email, password_hash, created_at
	`, strings.TrimSpace(u.Email), u.PasswordHash).Scan(
		&out.ID,
		&out.Email,
		&out.PasswordHash,
		&out.CreatedAt,
	)
	if err != nil {
		return model.User{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.pool.QueryRow(ctx, `
		select id, email, password_hash, created_at
		from users
		where lower(email) = lower($1)
	`, strings.TrimSpace(email)).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
