package admin

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/celsoprodesp/Antigravity/internal/repositories/memory"
)

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, memory.Seed(context.Background(), s))
	return s
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type failingPermissions struct {
	repositories.PermissionRepository
}

func (failingPermissions) BatchUpsert(ctx context.Context, records []*entities.PermissionRecord) error {
	return errors.New("write timeout")
}

func TestProfileService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: default records for every catalog page", func(t *testing.T) {
		s := newTestStore(t)
		svc := NewProfileService(s.Profiles(), s.Permissions(), quietLogger())

		p, err := svc.Create(ctx, "  Financeiro ", "Equipe financeira")
		require.NoError(t, err)
		assert.Equal(t, "Financeiro", p.Name)
		assert.NotEmpty(t, p.ID)

		records, err := s.Permissions().ListByProfile(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, records, len(entities.PageCatalog))
		for _, rec := range records {
			assert.True(t, entities.IsPersisted(rec.ID))
			assert.Equal(t, entities.Denied(), rec.Permission)
			page, ok := entities.LookupPage(rec.PageKey)
			require.True(t, ok)
			assert.Equal(t, page.Name, rec.PageName)
		}
	})

	t.Run("異常系: name is required", func(t *testing.T) {
		s := newTestStore(t)
		svc := NewProfileService(s.Profiles(), s.Permissions(), quietLogger())

		_, err := svc.Create(ctx, "   ", "")
		assert.Error(t, err)
	})

	t.Run("異常系: profile kept when default records fail", func(t *testing.T) {
		s := newTestStore(t)
		svc := NewProfileService(s.Profiles(), failingPermissions{s.Permissions()}, quietLogger())

		p, err := svc.Create(ctx, "Estoque", "")
		require.Error(t, err)
		require.NotNil(t, p)

		_, err = s.Profiles().Get(ctx, p.ID)
		assert.NoError(t, err)
	})
}

func TestProfileService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewProfileService(s.Profiles(), s.Permissions(), quietLogger())

	t.Run("異常系: administrator cannot be deleted", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, entities.AdministratorProfileID), ErrAdministratorProfile)
	})

	t.Run("正常系: permission records cascade", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "3"))

		records, err := s.Permissions().ListByProfile(ctx, "3")
		require.NoError(t, err)
		assert.Empty(t, records)

		profiles, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, profiles, 2)
	})

	t.Run("異常系: unknown profile", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, "404"), repositories.ErrNotFound)
	})
}

func TestProfileService_Rename(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewProfileService(s.Profiles(), s.Permissions(), quietLogger())

	require.NoError(t, svc.Rename(ctx, "2", "Operação", "Pedidos"))
	p, err := s.Profiles().Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Operação", p.Name)

	assert.ErrorIs(t, svc.Rename(ctx, entities.AdministratorProfileID, "Root", ""), ErrAdministratorProfile)
	assert.Error(t, svc.Rename(ctx, "2", "", ""))
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewUserService(s.Users(), quietLogger())

	t.Run("正常系: create and list", func(t *testing.T) {
		u, err := svc.Create(ctx, "Carlos Lima", " carlos@erpr.com ", "3", "")
		require.NoError(t, err)
		assert.Equal(t, "carlos@erpr.com", u.Email)

		users, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 4)
	})

	t.Run("異常系: missing fields", func(t *testing.T) {
		_, err := svc.Create(ctx, "", "x@erpr.com", "2", "")
		assert.Error(t, err)
		_, err = svc.Create(ctx, "X", "", "2", "")
		assert.Error(t, err)
		_, err = svc.Create(ctx, "X", "x@erpr.com", "", "")
		assert.Error(t, err)
	})

	t.Run("異常系: duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, "Outro Admin", "ADMIN@erpr.com", "2", "")
		assert.ErrorIs(t, err, repositories.ErrConflict)
	})

	t.Run("正常系: delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "3"))
		assert.ErrorIs(t, svc.Delete(ctx, "3"), repositories.ErrNotFound)
	})
}
