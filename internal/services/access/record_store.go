package access

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

// RecordStore is the in-memory collection of permission records indexed by
// (profile, page key). Records handed out are copies.
type RecordStore struct {
	repo repositories.PermissionRepository

	mu        sync.RWMutex
	byProfile map[string]map[entities.PageKey]*entities.PermissionRecord
}

// NewRecordStore creates an empty store backed by repo
func NewRecordStore(repo repositories.PermissionRepository) *RecordStore {
	return &RecordStore{
		repo:      repo,
		byProfile: make(map[string]map[entities.PageKey]*entities.PermissionRecord),
	}
}

// LoadAll replaces the whole collection with the records in the data store
func (s *RecordStore) LoadAll(ctx context.Context) error {
	records, err := s.repo.List(ctx)
	if err != nil {
		return &PersistenceError{Op: "load permissions", Err: err}
	}

	index := make(map[string]map[entities.PageKey]*entities.PermissionRecord)
	for _, rec := range records {
		byKey, ok := index[rec.ProfileID]
		if !ok {
			byKey = make(map[entities.PageKey]*entities.PermissionRecord)
			index[rec.ProfileID] = byKey
		}
		byKey[rec.PageKey] = rec.Clone()
	}

	s.mu.Lock()
	s.byProfile = index
	s.mu.Unlock()
	return nil
}

// LoadProfile replaces the records of one profile with those in the data store
func (s *RecordStore) LoadProfile(ctx context.Context, profileID string) error {
	records, err := s.repo.ListByProfile(ctx, profileID)
	if err != nil {
		return &PersistenceError{Op: "load permissions", Err: err}
	}
	s.ReplaceProfile(profileID, records)
	return nil
}

// Lookup returns the record for (profileID, key)
func (s *RecordStore) Lookup(profileID string, key entities.PageKey) (*entities.PermissionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byProfile[profileID][key]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// FindByID returns the record of profileID carrying id
func (s *RecordStore) FindByID(profileID string, id entities.RecordID) (*entities.PermissionRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.byProfile[profileID] {
		if rec.ID == id {
			return rec.Clone(), true
		}
	}
	return nil, false
}

// ForProfile returns the records of a profile, catalog pages first in catalog order
func (s *RecordStore) ForProfile(profileID string) []*entities.PermissionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*entities.PermissionRecord, 0, len(s.byProfile[profileID]))
	for _, rec := range s.byProfile[profileID] {
		records = append(records, rec.Clone())
	}
	slices.SortFunc(records, func(a, b *entities.PermissionRecord) int {
		return cmp.Or(cmp.Compare(catalogIndex(a.PageKey), catalogIndex(b.PageKey)), cmp.Compare(a.PageKey, b.PageKey))
	})
	return records
}

// Put inserts or replaces the record for its (profile, page key) pair
func (s *RecordStore) Put(rec *entities.PermissionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.byProfile[rec.ProfileID]
	if !ok {
		byKey = make(map[entities.PageKey]*entities.PermissionRecord)
		s.byProfile[rec.ProfileID] = byKey
	}
	byKey[rec.PageKey] = rec.Clone()
}

// ReplaceProfile swaps the whole record set of a profile
func (s *RecordStore) ReplaceProfile(profileID string, records []*entities.PermissionRecord) {
	byKey := make(map[entities.PageKey]*entities.PermissionRecord, len(records))
	for _, rec := range records {
		byKey[rec.PageKey] = rec.Clone()
	}

	s.mu.Lock()
	s.byProfile[profileID] = byKey
	s.mu.Unlock()
}

// MarkSaved folds a persisted batch back into the store. previous maps each page
// key to the id its record carried when the batch was taken. A record still
// carrying that id gets the persisted id; its flags are taken from the batch only
// when they were not changed in between. Records replaced since are left alone.
func (s *RecordStore) MarkSaved(profileID string, saved []*entities.PermissionRecord, previous map[entities.PageKey]entities.RecordID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey, ok := s.byProfile[profileID]
	if !ok {
		byKey = make(map[entities.PageKey]*entities.PermissionRecord)
		s.byProfile[profileID] = byKey
	}
	for _, rec := range saved {
		current, ok := byKey[rec.PageKey]
		if !ok {
			byKey[rec.PageKey] = rec.Clone()
			continue
		}
		if current.ID != previous[rec.PageKey] {
			continue
		}
		if current.Permission == rec.Permission {
			byKey[rec.PageKey] = rec.Clone()
			continue
		}
		current.ID = rec.ID
	}
}

// DropProfile forgets every record of a profile
func (s *RecordStore) DropProfile(profileID string) {
	s.mu.Lock()
	delete(s.byProfile, profileID)
	s.mu.Unlock()
}

func catalogIndex(key entities.PageKey) int {
	for i, p := range entities.PageCatalog {
		if p.Key == key {
			return i
		}
	}
	return len(entities.PageCatalog)
}
