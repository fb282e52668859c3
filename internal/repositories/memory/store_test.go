package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	s := NewStore()
	require.NoError(t, Seed(context.Background(), s))

	profiles, _ := s.Profiles().List(context.Background())
	assert.Len(t, profiles, 3)

	records, _ := s.Permissions().ListByProfile(context.Background(), "2")
	assert.Len(t, records, 6)
}

func TestPermissions_BatchUpsertUniquePair(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, Seed(ctx, s))

	err := s.Permissions().BatchUpsert(ctx, []*entities.PermissionRecord{
		perm("99", "Fluxo de Caixa", entities.PageFinance, "2", true, false, false),
	})
	assert.True(t, errors.Is(err, repositories.ErrConflict))
}

func TestProfiles_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, Seed(ctx, s))

	require.NoError(t, s.Profiles().Delete(ctx, "3"))

	records, _ := s.Permissions().ListByProfile(ctx, "3")
	assert.Empty(t, records)

	_, err := s.Profiles().Get(ctx, "3")
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}

func TestUsers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, Seed(ctx, s))

	err := s.Users().Create(ctx, &entities.User{ID: "9", Name: "Outro", Email: "ADMIN@erpr.com", ProfileID: "2"})
	assert.True(t, errors.Is(err, repositories.ErrConflict))
}
