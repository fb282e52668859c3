package cached

import (
	"context"
	"fmt"
	"time"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/celsoprodesp/Antigravity/pkg/cache"
	"github.com/fxamacker/cbor/v2"
	"github.com/sirupsen/logrus"
)

// cachedRecord is the CBOR form of a persisted permission record
type cachedRecord struct {
	ID        string    `cbor:"1,keyasint"`
	PageName  string    `cbor:"2,keyasint"`
	PageKey   string    `cbor:"3,keyasint"`
	ProfileID string    `cbor:"4,keyasint"`
	CanRead   bool      `cbor:"5,keyasint"`
	CanWrite  bool      `cbor:"6,keyasint"`
	CanDelete bool      `cbor:"7,keyasint"`
	CreatedAt time.Time `cbor:"8,keyasint"`
	UpdatedAt time.Time `cbor:"9,keyasint"`
}

// PermissionRepository caches per-profile permission sets in front of another repository
type PermissionRepository struct {
	next   repositories.PermissionRepository
	cache  cache.Cache
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewPermissionRepository wraps next with a read-through cache of ListByProfile results
func NewPermissionRepository(next repositories.PermissionRepository, c cache.Cache, ttl time.Duration, logger logrus.FieldLogger) *PermissionRepository {
	return &PermissionRepository{next: next, cache: c, ttl: ttl, logger: logger}
}

func profileKey(profileID string) string {
	return "permissions:" + profileID
}

// List retrieves every permission record. Full listings bypass the cache.
func (r *PermissionRepository) List(ctx context.Context) ([]*entities.PermissionRecord, error) {
	return r.next.List(ctx)
}

// ListByProfile returns the cached set for the profile, loading it on a miss
func (r *PermissionRepository) ListByProfile(ctx context.Context, profileID string) ([]*entities.PermissionRecord, error) {
	key := profileKey(profileID)
	if data, ok := r.cache.Get(ctx, key); ok {
		records, err := decodeRecords(data)
		if err == nil {
			return records, nil
		}
		r.logger.WithError(err).WithField("profile_id", profileID).Warn("discarding undecodable cache entry")
	}

	records, err := r.next.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	data, err := encodeRecords(records)
	if err != nil {
		r.logger.WithError(err).Warn("failed to encode permission set for cache")
		return records, nil
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.WithError(err).WithField("profile_id", profileID).Warn("failed to cache permission set")
	}

	return records, nil
}

// BatchUpsert writes through and invalidates every touched profile
func (r *PermissionRepository) BatchUpsert(ctx context.Context, records []*entities.PermissionRecord) error {
	if err := r.next.BatchUpsert(ctx, records); err != nil {
		return err
	}

	seen := make(map[string]struct{})
	for _, rec := range records {
		if _, ok := seen[rec.ProfileID]; ok {
			continue
		}
		seen[rec.ProfileID] = struct{}{}
		r.Invalidate(ctx, rec.ProfileID)
	}
	return nil
}

// DeleteByProfile deletes through and invalidates the profile
func (r *PermissionRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	if err := r.next.DeleteByProfile(ctx, profileID); err != nil {
		return err
	}
	r.Invalidate(ctx, profileID)
	return nil
}

// Invalidate drops the cached set of a profile
func (r *PermissionRepository) Invalidate(ctx context.Context, profileID string) {
	if err := r.cache.Delete(ctx, profileKey(profileID)); err != nil {
		r.logger.WithError(err).WithField("profile_id", profileID).Warn("failed to invalidate cached permission set")
	}
}

// InvalidateAll drops every cached permission set
func (r *PermissionRepository) InvalidateAll(ctx context.Context) {
	if err := r.cache.Clear(ctx); err != nil {
		r.logger.WithError(err).Warn("failed to clear permission cache")
	}
}

func encodeRecords(records []*entities.PermissionRecord) ([]byte, error) {
	out := make([]cachedRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, cachedRecord{
			ID:        rec.ID.String(),
			PageName:  rec.PageName,
			PageKey:   string(rec.PageKey),
			ProfileID: rec.ProfileID,
			CanRead:   rec.CanRead,
			CanWrite:  rec.CanWrite,
			CanDelete: rec.CanDelete,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	return cbor.Marshal(out)
}

func decodeRecords(data []byte) ([]*entities.PermissionRecord, error) {
	var in []cachedRecord
	if err := cbor.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to decode permission set: %w", err)
	}

	records := make([]*entities.PermissionRecord, 0, len(in))
	for _, c := range in {
		records = append(records, &entities.PermissionRecord{
			ID:        entities.PersistedID(c.ID),
			PageName:  c.PageName,
			PageKey:   entities.PageKey(c.PageKey),
			ProfileID: c.ProfileID,
			Permission: entities.Permission{
				CanRead:   c.CanRead,
				CanWrite:  c.CanWrite,
				CanDelete: c.CanDelete,
			},
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return records, nil
}
