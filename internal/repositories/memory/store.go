// Package memory provides in-process repositories used by the demo console and tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

// Store holds the profiles, users and permission records tables
type Store struct {
	mu          sync.RWMutex
	profiles    map[string]*entities.Profile
	users       map[string]*entities.User
	permissions map[string]*entities.PermissionRecord
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		profiles:    make(map[string]*entities.Profile),
		users:       make(map[string]*entities.User),
		permissions: make(map[string]*entities.PermissionRecord),
	}
}

// Permissions returns the permission records repository
func (s *Store) Permissions() repositories.PermissionRepository { return permissionRepository{s} }

// Profiles returns the profiles repository
func (s *Store) Profiles() repositories.ProfileRepository { return profileRepository{s} }

// Users returns the users repository
func (s *Store) Users() repositories.UserRepository { return userRepository{s} }

type permissionRepository struct{ s *Store }

func (r permissionRepository) List(ctx context.Context) ([]*entities.PermissionRecord, error) {
	return r.s.listPermissions(func(*entities.PermissionRecord) bool { return true }), nil
}

func (r permissionRepository) ListByProfile(ctx context.Context, profileID string) ([]*entities.PermissionRecord, error) {
	return r.s.listPermissions(func(rec *entities.PermissionRecord) bool { return rec.ProfileID == profileID }), nil
}

func (r permissionRepository) BatchUpsert(ctx context.Context, records []*entities.PermissionRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("invalid permission record at index %d: %w", i, err)
		}
		if !entities.IsPersisted(rec.ID) {
			return fmt.Errorf("permission record at index %d has pending id %s", i, rec.ID)
		}
		if _, ok := r.s.profiles[rec.ProfileID]; !ok {
			return fmt.Errorf("profile %s: %w", rec.ProfileID, repositories.ErrNotFound)
		}
		for id, existing := range r.s.permissions {
			if id != rec.ID.String() && existing.ProfileID == rec.ProfileID && existing.PageKey == rec.PageKey {
				return fmt.Errorf("permission %s/%s: %w", rec.ProfileID, rec.PageKey, repositories.ErrConflict)
			}
		}
	}

	now := time.Now()
	for _, rec := range records {
		c := rec.Clone()
		if prev, ok := r.s.permissions[c.ID.String()]; ok {
			c.CreatedAt = prev.CreatedAt
		} else {
			c.CreatedAt = now
		}
		c.UpdatedAt = now
		r.s.permissions[c.ID.String()] = c
	}
	return nil
}

func (r permissionRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deletePermissionsLocked(profileID)
	return nil
}

func (s *Store) listPermissions(keep func(*entities.PermissionRecord) bool) []*entities.PermissionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*entities.PermissionRecord
	for _, rec := range s.permissions {
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *entities.PermissionRecord) int {
		return cmp.Or(cmp.Compare(a.ProfileID, b.ProfileID), cmp.Compare(a.PageKey, b.PageKey))
	})
	return out
}

func (s *Store) deletePermissionsLocked(profileID string) {
	for id, rec := range s.permissions {
		if rec.ProfileID == profileID {
			delete(s.permissions, id)
		}
	}
}

type profileRepository struct{ s *Store }

func (r profileRepository) List(ctx context.Context) ([]*entities.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		c := *p
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *entities.Profile) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r profileRepository) Get(ctx context.Context, id string) (*entities.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, repositories.ErrNotFound)
	}
	c := *p
	return &c, nil
}

func (r profileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[profile.ID]; ok {
		return fmt.Errorf("profile %s: %w", profile.ID, repositories.ErrConflict)
	}
	c := *profile
	c.CreatedAt = time.Now()
	r.s.profiles[c.ID] = &c
	return nil
}

func (r profileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[profile.ID]
	if !ok {
		return fmt.Errorf("profile %s: %w", profile.ID, repositories.ErrNotFound)
	}
	p.Name = profile.Name
	p.Description = profile.Description
	return nil
}

func (r profileRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.profiles[id]; !ok {
		return fmt.Errorf("profile %s: %w", id, repositories.ErrNotFound)
	}
	delete(r.s.profiles, id)
	r.s.deletePermissionsLocked(id)
	return nil
}

type userRepository struct{ s *Store }

func (r userRepository) List(ctx context.Context) ([]*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		c := *u
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *entities.User) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r userRepository) Create(ctx context.Context, user *entities.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUniqueLocked(user); err != nil {
		return err
	}
	c := *user
	c.CreatedAt = time.Now()
	r.s.users[c.ID] = &c
	return nil
}

func (r userRepository) Update(ctx context.Context, user *entities.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, repositories.ErrNotFound)
	}
	if err := r.checkUniqueLocked(user); err != nil {
		return err
	}
	c := *user
	c.CreatedAt = prev.CreatedAt
	r.s.users[c.ID] = &c
	return nil
}

func (r userRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	delete(r.s.users, id)
	return nil
}

func (r userRepository) checkUniqueLocked(user *entities.User) error {
	if _, ok := r.s.profiles[user.ProfileID]; !ok {
		return fmt.Errorf("profile %s: %w", user.ProfileID, repositories.ErrNotFound)
	}
	for id, u := range r.s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("user %s: %w", user.Email, repositories.ErrConflict)
		}
	}
	return nil
}
