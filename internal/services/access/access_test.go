package access

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/celsoprodesp/Antigravity/internal/repositories/memory"
)

type countingRecorder struct {
	decisions map[string]int
	denials   map[string]int
	saves     int
	saveErrs  int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{decisions: map[string]int{}, denials: map[string]int{}}
}

func (r *countingRecorder) RecordDecision(reason string) { r.decisions[reason]++ }
func (r *countingRecorder) RecordDenial(pageKey string)  { r.denials[pageKey]++ }
func (r *countingRecorder) RecordSave(err error) {
	if err != nil {
		r.saveErrs++
		return
	}
	r.saves++
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newSeededStore returns a memory store seeded with the demo data and a record store loaded from it
func newSeededStore(t *testing.T) (*memory.Store, *RecordStore) {
	t.Helper()
	ctx := context.Background()

	mem := memory.NewStore()
	require.NoError(t, memory.Seed(ctx, mem))

	store := NewRecordStore(mem.Permissions())
	require.NoError(t, store.LoadAll(ctx))
	return mem, store
}

type failingRepository struct {
	repositories.PermissionRepository
	err error
}

func (f failingRepository) List(ctx context.Context) ([]*entities.PermissionRecord, error) {
	return nil, f.err
}

func (f failingRepository) ListByProfile(ctx context.Context, profileID string) ([]*entities.PermissionRecord, error) {
	return nil, f.err
}

func (f failingRepository) BatchUpsert(ctx context.Context, records []*entities.PermissionRecord) error {
	return f.err
}

func TestResolvePageKey(t *testing.T) {
	tests := []struct {
		view entities.View
		want entities.PageKey
	}{
		{entities.ViewDashboard, entities.PageDashboard},
		{entities.ViewFinance, entities.PageFinance},
		{entities.ViewNewOrder, entities.PageNewOrder},
		{entities.ViewSettings, entities.PageSettings},
		{entities.ViewEditMyProfile, entities.PageEditMyProfile},
		{entities.ViewClients, entities.PageClients},
		{entities.ViewClientProfile, entities.PageClients},
		{entities.ViewRegisterClient, entities.PageClients},
		{entities.ViewRegisterItem, entities.PageRegisterItem},
		{entities.ViewRegisterCategory, entities.PageRegisterItem},
		{entities.ViewAdmin, entities.PageAdmin},
		{entities.ViewRegisterProfile, entities.PageAdmin},
		{entities.ViewRegisterUser, entities.PageAdmin},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			if got := ResolvePageKey(tt.view); got != tt.want {
				t.Errorf("ResolvePageKey(%s) = %s, want %s", tt.view, got, tt.want)
			}
		})
	}
}

func TestViewsFor(t *testing.T) {
	tests := []struct {
		key  entities.PageKey
		want []entities.View
	}{
		{entities.PageClients, []entities.View{entities.ViewClients, entities.ViewClientProfile, entities.ViewRegisterClient}},
		{entities.PageFinance, []entities.View{entities.ViewFinance}},
	}

	for _, tt := range tests {
		if got := ViewsFor(tt.key); !slices.Equal(got, tt.want) {
			t.Errorf("ViewsFor(%s) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestRecordStore(t *testing.T) {
	_, store := newSeededStore(t)

	t.Run("正常系: lookup returns a copy", func(t *testing.T) {
		rec, ok := store.Lookup("2", entities.PageNewOrder)
		require.True(t, ok)
		rec.CanDelete = true

		again, ok := store.Lookup("2", entities.PageNewOrder)
		require.True(t, ok)
		assert.False(t, again.CanDelete)
	})

	t.Run("正常系: records follow catalog order", func(t *testing.T) {
		records := store.ForProfile("3")
		require.Len(t, records, 3)
		assert.Equal(t, entities.PageDashboard, records[0].PageKey)
		assert.Equal(t, entities.PageClients, records[1].PageKey)
		assert.Equal(t, entities.PageFinance, records[2].PageKey)
	})

	t.Run("正常系: find by id", func(t *testing.T) {
		rec, ok := store.FindByID("2", entities.PersistedID("14"))
		require.True(t, ok)
		assert.Equal(t, entities.PageFinance, rec.PageKey)

		_, ok = store.FindByID("3", entities.PersistedID("14"))
		assert.False(t, ok)
	})

	t.Run("正常系: mark saved keeps flags changed in between", func(t *testing.T) {
		_, store := newSeededStore(t)
		pending := &entities.PermissionRecord{ID: entities.PendingID(900), PageName: "Configurações",
			PageKey: entities.PageSettings, ProfileID: "3", Permission: entities.Permission{CanRead: true}}
		store.Put(pending)

		previous := map[entities.PageKey]entities.RecordID{
			entities.PageSettings: pending.ID,
			entities.PageFinance:  entities.PersistedID("34"),
		}
		settings := pending.Clone()
		settings.ID = entities.PersistedID("c0ffee")
		finance, _ := store.Lookup("3", entities.PageFinance)

		// FINANCE changes while the batch is in flight
		changed := finance.Clone()
		changed.Permission = entities.Denied()
		store.Put(changed)

		store.MarkSaved("3", []*entities.PermissionRecord{settings, finance}, previous)

		rec, ok := store.Lookup("3", entities.PageSettings)
		require.True(t, ok)
		assert.Equal(t, entities.PersistedID("c0ffee"), rec.ID)
		assert.Equal(t, entities.Permission{CanRead: true}, rec.Permission)

		rec, ok = store.Lookup("3", entities.PageFinance)
		require.True(t, ok)
		assert.Equal(t, entities.PersistedID("34"), rec.ID)
		assert.Equal(t, entities.Denied(), rec.Permission)
	})

	t.Run("正常系: drop profile", func(t *testing.T) {
		store.DropProfile("3")
		assert.Empty(t, store.ForProfile("3"))
	})

	t.Run("異常系: load failure", func(t *testing.T) {
		broken := NewRecordStore(failingRepository{err: errors.New("connection refused")})
		err := broken.LoadAll(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPersistence)

		err = broken.LoadProfile(context.Background(), "2")
		assert.ErrorIs(t, err, ErrPersistence)
	})
}

func TestEvaluator_Decide(t *testing.T) {
	_, store := newSeededStore(t)
	recorder := newCountingRecorder()
	ev := NewEvaluator(store, recorder)

	tests := []struct {
		name    string
		subject entities.Subject
		view    entities.View
		want    entities.Permission
		reason  Reason
	}{
		{
			name:    "administrator profile has full access",
			subject: entities.Subject{ProfileID: entities.AdministratorProfileID},
			view:    entities.ViewFinance,
			want:    entities.FullAccess(),
			reason:  ReasonAdministrator,
		},
		{
			name:    "administrator role marker has full access",
			subject: entities.Subject{ProfileID: "2", Administrator: true},
			view:    entities.ViewAdmin,
			want:    entities.FullAccess(),
			reason:  ReasonAdministrator,
		},
		{
			name:    "dashboard is always fully accessible",
			subject: entities.Subject{ProfileID: "3"},
			view:    entities.ViewDashboard,
			want:    entities.FullAccess(),
			reason:  ReasonDashboard,
		},
		{
			name:    "dashboard without any record",
			subject: entities.Subject{ProfileID: "99"},
			view:    entities.ViewDashboard,
			want:    entities.FullAccess(),
			reason:  ReasonDashboard,
		},
		{
			name:    "stored record returned verbatim",
			subject: entities.Subject{ProfileID: "2"},
			view:    entities.ViewNewOrder,
			want:    entities.Permission{CanRead: true, CanWrite: true},
			reason:  ReasonRecord,
		},
		{
			name:    "all-false stored record",
			subject: entities.Subject{ProfileID: "2"},
			view:    entities.ViewFinance,
			want:    entities.Denied(),
			reason:  ReasonRecord,
		},
		{
			name:    "absence denies",
			subject: entities.Subject{ProfileID: "3"},
			view:    entities.ViewSettings,
			want:    entities.Denied(),
			reason:  ReasonNoRecord,
		},
		{
			name:    "alias resolves to governing key",
			subject: entities.Subject{ProfileID: "3"},
			view:    entities.ViewRegisterClient,
			want:    entities.Permission{CanRead: true},
			reason:  ReasonRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ev.Decide(tt.subject, tt.view)
			assert.Equal(t, tt.want, d.Permission)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, ResolvePageKey(tt.view), d.PageKey)
		})
	}

	assert.Equal(t, 2, recorder.decisions["administrator"])
	assert.Equal(t, 2, recorder.decisions["dashboard"])
	assert.Equal(t, 1, recorder.decisions["no_record"])
}

func TestEvaluator_AdministratorIgnoresStoredRecords(t *testing.T) {
	store := NewRecordStore(memory.NewStore().Permissions())
	store.Put(&entities.PermissionRecord{
		ID:        entities.PersistedID("x"),
		PageKey:   entities.PageFinance,
		ProfileID: entities.AdministratorProfileID,
	})
	ev := NewEvaluator(store, nil)

	for _, v := range entities.AllViews {
		assert.Equal(t, entities.FullAccess(), ev.Evaluate(entities.Subject{ProfileID: entities.AdministratorProfileID}, v), v)
	}
}

func TestEvaluator_ClientAliases(t *testing.T) {
	store := NewRecordStore(memory.NewStore().Permissions())
	store.Put(&entities.PermissionRecord{
		ID:         entities.PersistedID("c1"),
		PageKey:    entities.PageClients,
		ProfileID:  "X",
		Permission: entities.Permission{CanRead: true},
	})
	ev := NewEvaluator(store, nil)
	x := entities.Subject{ProfileID: "X"}

	want := entities.Permission{CanRead: true}
	assert.Equal(t, want, ev.Evaluate(x, entities.ViewClients))
	assert.Equal(t, want, ev.Evaluate(x, entities.ViewClientProfile))
	assert.Equal(t, want, ev.Evaluate(x, entities.ViewRegisterClient))
}

func TestReason_String(t *testing.T) {
	tests := []struct {
		reason Reason
		want   string
	}{
		{ReasonNoRecord, "no_record"},
		{ReasonRecord, "record"},
		{ReasonDashboard, "dashboard"},
		{ReasonAdministrator, "administrator"},
	}

	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("Reason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}
