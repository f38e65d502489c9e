package postgres

import (
	"context"
	"errors"
	"fmt"

	"leadcrm/backend/internal/model"
	"leadcrm/backend/internal/store"

	"github.com/jackc/pgx/v5"
)

const leadColumns = `id, name, email, phone, status, created_at, updated_at`

func scanLead(row pgx.Row) (model.Lead, error) {
	var l model.Lead
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func (s *Store) CountLeads(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `select count(*) from leads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

func (s *Store) ListLeads(ctx context.Context, f store.LeadFilter) ([]model.Lead, error) {
	// A null limit means "all rows" in Postgres.
	var limit *int
	if f.Limit > 0 {
		limit = &f.Limit
	}

	rows, err := s.pool.Query(ctx, `
		select `+leadColumns+`
		from leads
		order by id asc
		offset $1
		limit $2
	`, f.Offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	out := make([]model.Lead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return out, nil
}

func (s *Store) GetLead(ctx context.Context, id int64) (model.Lead, error) {
	l, err := scanLead(s.pool.QueryRow(ctx, `
		select `+leadColumns+`
		from leads
		where id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Lead{}, store.ErrNotFound
		}
		return model.Lead{}, mapPgErr(err)
	}
	return l, nil
}

func (s *Store) CreateLead(ctx context.Context, l model.Lead) (model.Lead, error) {
	out, err := scanLead(s.pool.QueryRow(ctx, `
		insert into leads (name, email, phone, status)
		values ($1, $2, $3, $4)
		returning `+leadColumns,
		l.Name, l.Email, l.Phone, l.Status))
	if err != nil {
		return model.Lead{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) UpdateLead(ctx context.Context, l model.Lead) (model.Lead, error) {
	out, err := scanLead(s.pool.QueryRow(ctx, `
		update leads
		set name = $2,
		    email = $3,
		    phone = $4,
		    status = $5,
		    updated_at = now()
		where id = $1
		returning `+leadColumns,
		l.ID, l.Name, l.Email, l.Phone, l.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Lead{}, store.ErrNotFound
		}
		return model.Lead{}, mapPgErr(err)
	}
	return out, nil
}

func (s *Store) DeleteLead(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `delete from leads where id = $1`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
