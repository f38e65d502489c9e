package memory

import (
	"context"
	"fmt"
	"testing"

	"leadcrm/backend/internal/model"
	"leadcrm/backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLeads(t *testing.T, s *Store, n int) []model.Lead {
	t.Helper()
	out := make([]model.Lead, 0, n)
	for i := 1; i <= n; i++ {
		l, err := s.CreateLead(context.Background(), model.Lead{
			Name:   fmt.Sprintf("lead-%d", i),
			Email:  fmt.Sprintf("lead%d@example.com", i),
			Phone:  "555-0100",
			Status: "new",
		})
		require.NoError(t, err)
		out = append(out, l)
	}
	return out
}

func TestCreateUser(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	// Test case 1: Valid user
	u, err := s.CreateUser(ctx, model.User{Email: "alice@example.com", PasswordHash: "hash"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotZero(t, u.CreatedAt)

	// Test case 2: Same email, different case
	_, err = s.CreateUser(ctx, model.User{Email: "ALICE@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, store.ErrConflict)

	// Test case 3: Missing email
	_, err = s.CreateUser(ctx, model.User{PasswordHash: "hash"})
	assert.EqualError(t, err, "email_required")
}

func TestGetUserByEmail(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, model.User{Email: "bob@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	got, err := s.GetUserByEmail(ctx, "Bob@Example.com")
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = s.GetUserByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListLeads_OrderAndWindow(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedLeads(t, s, 10)

	total, err := s.CountLeads(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	// page 2, limit 3
	page, err := s.ListLeads(ctx, store.LeadFilter{Offset: 3, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, []int64{4, 5, 6}, []int64{page[0].ID, page[1].ID, page[2].ID})

	// last partial page
	page, err = s.ListLeads(ctx, store.LeadFilter{Offset: 9, Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(10), page[0].ID)

	// past the end
	page, err = s.ListLeads(ctx, store.LeadFilter{Offset: 30, Limit: 3})
	require.NoError(t, err)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	// no limit
	page, err = s.ListLeads(ctx, store.LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, page, 10)
}

func TestUpdateLead(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	leads := seedLeads(t, s, 2)

	updated, err := s.UpdateLead(ctx, model.Lead{
		ID:     leads[0].ID,
		Name:   "renamed",
		Email:  "renamed@example.com",
		Phone:  "",
		Status: "won",
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "", updated.Phone)
	assert.Equal(t, "won", updated.Status)
	assert.Equal(t, leads[0].CreatedAt, updated.CreatedAt)

	_, err = s.UpdateLead(ctx, model.Lead{ID: 99, Name: "ghost"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The failed update must not have touched anything.
	other, err := s.GetLead(ctx, leads[1].ID)
	require.NoError(t, err)
	assert.Equal(t, leads[1], other)
	total, _ := s.CountLeads(ctx)
	assert.Equal(t, 2, total)
}

func TestDeleteLead(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	leads := seedLeads(t, s, 3)

	require.NoError(t, s.DeleteLead(ctx, leads[1].ID))
	assert.ErrorIs(t, s.DeleteLead(ctx, leads[1].ID), store.ErrNotFound)

	_, err := s.GetLead(ctx, leads[1].ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	total, err := s.CountLeads(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// IDs are not reused.
	created, err := s.CreateLead(ctx, model.Lead{Name: "next"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)
}
