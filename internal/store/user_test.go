package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine/storefront/internal/domain"
)

func TestUserLoginLogout(t *testing.T) {
	s := NewUserStore(context.Background(), newMemStore(), "user-storage", testLogger())
	ctx := context.Background()

	assert.False(t, s.IsAuthenticated())

	s.Login(ctx, domain.Customer{ID: "cus_1", Email: "ana@example.com", FirstName: "Ana"})
	assert.True(t, s.IsAuthenticated())

	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", current.Email)

	s.Logout(ctx)
	assert.False(t, s.IsAuthenticated())
	_, ok = s.Current()
	assert.False(t, ok)
}

func TestUserState_SurvivesReload(t *testing.T) {
	local := newMemStore()
	ctx := context.Background()

	s := NewUserStore(ctx, local, "user-storage", testLogger())
	s.Login(ctx, domain.Customer{ID: "cus_1", Email: "ana@example.com"})

	reloaded := NewUserStore(ctx, local, "user-storage", testLogger())
	assert.True(t, reloaded.IsAuthenticated())

	current, ok := reloaded.Current()
	require.True(t, ok)
	assert.Equal(t, "cus_1", current.ID)
}

func TestUserLogout_ClearsPersistedState(t *testing.T) {
	local := newMemStore()
	ctx := context.Background()

	s := NewUserStore(ctx, local, "user-storage", testLogger())
	s.Login(ctx, domain.Customer{ID: "cus_1"})
	s.Logout(ctx)

	reloaded := NewUserStore(ctx, local, "user-storage", testLogger())
	assert.False(t, reloaded.IsAuthenticated())
}
