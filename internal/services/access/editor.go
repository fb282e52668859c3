package access

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

// pendingSeq numbers pending records across every editor of the process
var pendingSeq atomic.Uint64

// Row is one line of the permission editor
type Row struct {
	PageKey    entities.PageKey
	PageName   string
	Permission entities.Permission
	// ID is nil while the page has no record yet
	ID       entities.RecordID
	ReadOnly bool
}

// Editor toggles and saves the permission records of one selected profile.
// Changes go to the shared RecordStore immediately, so they affect evaluation
// before they are saved.
type Editor struct {
	store    *RecordStore
	repo     repositories.PermissionRepository
	logger   logrus.FieldLogger
	recorder Recorder

	selected string
}

// NewEditor creates an editor working on store and persisting through repo.
// logger and recorder may be nil.
func NewEditor(store *RecordStore, repo repositories.PermissionRepository, logger logrus.FieldLogger, recorder Recorder) *Editor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Editor{store: store, repo: repo, logger: logger, recorder: recorder}
}

// SelectProfile makes profileID the profile being edited.
// The Administrator profile can be selected but not edited.
func (e *Editor) SelectProfile(profileID string) {
	e.selected = profileID
}

// Selected returns the selected profile id, or "" when none
func (e *Editor) Selected() string {
	return e.selected
}

// Rows lists one row per catalog page for the selected profile
func (e *Editor) Rows() []Row {
	if e.selected == "" {
		return nil
	}

	rows := make([]Row, 0, len(entities.PageCatalog))
	for _, page := range entities.PageCatalog {
		row := Row{PageKey: page.Key, PageName: page.Name}
		switch {
		case e.selected == entities.AdministratorProfileID:
			row.Permission = entities.FullAccess()
			row.ReadOnly = true
		default:
			if rec, ok := e.store.Lookup(e.selected, page.Key); ok {
				row.ID = rec.ID
				row.PageName = rec.PageName
				row.Permission = rec.Permission
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (e *Editor) checkEditable() error {
	if e.selected == "" {
		return ErrNoProfileSelected
	}
	if e.selected == entities.AdministratorProfileID {
		return ErrAdministratorProfile
	}
	return nil
}

// Toggle flips field on the record id of the selected profile and returns the updated record
func (e *Editor) Toggle(id entities.RecordID, field entities.PermissionField) (*entities.PermissionRecord, error) {
	if err := e.checkEditable(); err != nil {
		return nil, err
	}

	rec, ok := e.store.FindByID(e.selected, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err := rec.Toggle(field); err != nil {
		return nil, err
	}
	e.store.Put(rec)
	return rec, nil
}

// TogglePage flips field on the page key of the selected profile.
// A page without a record gets a pending record, all flags cleared before the toggle.
func (e *Editor) TogglePage(key entities.PageKey, field entities.PermissionField) (*entities.PermissionRecord, error) {
	if err := e.checkEditable(); err != nil {
		return nil, err
	}

	rec, ok := e.store.Lookup(e.selected, key)
	if !ok {
		page, known := entities.LookupPage(key)
		if !known {
			return nil, fmt.Errorf("unknown page key: %q", key)
		}
		rec = &entities.PermissionRecord{
			ID:        entities.PendingID(pendingSeq.Add(1)),
			PageName:  page.Name,
			PageKey:   page.Key,
			ProfileID: e.selected,
		}
	}
	if err := rec.Toggle(field); err != nil {
		return nil, err
	}
	e.store.Put(rec)
	return rec, nil
}

// SetPage replaces the flags of a page of the selected profile.
// Write or delete without read is corrected by granting read.
func (e *Editor) SetPage(key entities.PageKey, perm entities.Permission) (*entities.PermissionRecord, error) {
	if err := e.checkEditable(); err != nil {
		return nil, err
	}

	rec, ok := e.store.Lookup(e.selected, key)
	if !ok {
		page, known := entities.LookupPage(key)
		if !known {
			return nil, fmt.Errorf("unknown page key: %q", key)
		}
		rec = &entities.PermissionRecord{
			ID:        entities.PendingID(pendingSeq.Add(1)),
			PageName:  page.Name,
			PageKey:   page.Key,
			ProfileID: e.selected,
		}
	}
	rec.Permission = perm
	rec.Normalize()
	e.store.Put(rec)
	return rec, nil
}

// Save persists the complete record set of profileID in one batch upsert.
// Pending ids are replaced by fresh UUIDs. On failure the local records keep their state.
// Toggles made while the batch is in flight survive the save and stay unsaved.
func (e *Editor) Save(ctx context.Context, profileID string) error {
	if profileID == "" {
		return ErrNoProfileSelected
	}
	if profileID == entities.AdministratorProfileID {
		return ErrAdministratorProfile
	}

	records := e.store.ForProfile(profileID)
	previous := make(map[entities.PageKey]entities.RecordID, len(records))
	for _, rec := range records {
		previous[rec.PageKey] = rec.ID
		if !entities.IsPersisted(rec.ID) {
			rec.ID = entities.PersistedID(uuid.NewString())
		}
		rec.Normalize()
	}

	if err := e.repo.BatchUpsert(ctx, records); err != nil {
		e.recorder.RecordSave(err)
		e.logger.WithError(err).WithFields(logrus.Fields{
			"profile_id": profileID,
			"records":    len(records),
		}).Error("failed to save permissions")
		return &PersistenceError{Op: "save permissions", Err: err}
	}

	e.store.MarkSaved(profileID, records, previous)
	e.recorder.RecordSave(nil)
	e.logger.WithFields(logrus.Fields{
		"profile_id": profileID,
		"records":    len(records),
	}).Info("permissions saved")
	return nil
}
