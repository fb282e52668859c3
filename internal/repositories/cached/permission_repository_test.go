package cached

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/celsoprodesp/Antigravity/internal/repositories/memory"
	"github.com/celsoprodesp/Antigravity/pkg/cache/lrucache"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepository struct {
	repositories.PermissionRepository
	listByProfile int
}

func (c *countingRepository) ListByProfile(ctx context.Context, profileID string) ([]*entities.PermissionRecord, error) {
	c.listByProfile++
	return c.PermissionRepository.ListByProfile(ctx, profileID)
}

func newTestRepository(t *testing.T) (*PermissionRepository, *countingRepository) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, memory.Seed(context.Background(), store))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	counting := &countingRepository{PermissionRepository: store.Permissions()}
	c := lrucache.New(&lrucache.Config{MaxEntries: 16, DefaultTTL: time.Minute})
	return NewPermissionRepository(counting, c, time.Minute, logger), counting
}

func TestPermissionRepository_ListByProfileCaches(t *testing.T) {
	repo, counting := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.ListByProfile(ctx, "2")
	require.NoError(t, err)
	second, err := repo.ListByProfile(ctx, "2")
	require.NoError(t, err)

	assert.Equal(t, 1, counting.listByProfile)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Permission, second[i].Permission)
		assert.Equal(t, first[i].PageKey, second[i].PageKey)
	}
}

func TestPermissionRepository_UpsertInvalidates(t *testing.T) {
	repo, counting := newTestRepository(t)
	ctx := context.Background()

	records, err := repo.ListByProfile(ctx, "2")
	require.NoError(t, err)

	var finance *entities.PermissionRecord
	for _, r := range records {
		if r.PageKey == entities.PageFinance {
			finance = r
		}
	}
	require.NotNil(t, finance)
	require.NoError(t, finance.Toggle(entities.FieldRead))
	require.NoError(t, repo.BatchUpsert(ctx, []*entities.PermissionRecord{finance}))

	reloaded, err := repo.ListByProfile(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, counting.listByProfile)

	for _, r := range reloaded {
		if r.PageKey == entities.PageFinance {
			assert.True(t, r.CanRead)
		}
	}
}

func TestEncodeDecodeRecords(t *testing.T) {
	in := []*entities.PermissionRecord{{
		ID: entities.PersistedID("12"), PageName: "Novo Pedido", PageKey: entities.PageNewOrder, ProfileID: "2",
		Permission: entities.Permission{CanRead: true, CanWrite: true},
	}}
	data, err := encodeRecords(in)
	require.NoError(t, err)

	out, err := decodeRecords(data)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, in[0].ID, out[0].ID)
	assert.Equal(t, in[0].Permission, out[0].Permission)

	_, err = decodeRecords([]byte{0xff})
	assert.Error(t, err)
}

func TestPermissionRepository_InvalidateAll(t *testing.T) {
	repo, counting := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.ListByProfile(ctx, "2")
	require.NoError(t, err)
	_, err = repo.ListByProfile(ctx, "3")
	require.NoError(t, err)

	repo.InvalidateAll(ctx)

	_, err = repo.ListByProfile(ctx, "2")
	require.NoError(t, err)
	_, err = repo.ListByProfile(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 4, counting.listByProfile)
}
