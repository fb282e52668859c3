package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/celsoprodesp/Antigravity/internal/services/access"
)

// CacheInvalidator drops cached permission sets
type CacheInvalidator interface {
	Invalidate(ctx context.Context, profileID string)
	InvalidateAll(ctx context.Context)
}

// PermissionSync applies permission changes made elsewhere to the local cache and record store.
// It is the handler of the LISTEN/NOTIFY change listener.
type PermissionSync struct {
	cache   CacheInvalidator // optional
	records *access.RecordStore
	logger  logrus.FieldLogger
}

// NewPermissionSync creates a PermissionSync. cache may be nil when caching is disabled.
func NewPermissionSync(cache CacheInvalidator, records *access.RecordStore, logger logrus.FieldLogger) *PermissionSync {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PermissionSync{cache: cache, records: records, logger: logger}
}

// ProfileChanged reloads the records of one profile
func (p *PermissionSync) ProfileChanged(ctx context.Context, profileID string) {
	if p.cache != nil {
		p.cache.Invalidate(ctx, profileID)
	}
	if err := p.records.LoadProfile(ctx, profileID); err != nil {
		p.logger.WithError(err).WithField("profile_id", profileID).Error("failed to reload permissions")
	}
}

// Resync reloads every record
func (p *PermissionSync) Resync(ctx context.Context) {
	if p.cache != nil {
		p.cache.InvalidateAll(ctx)
	}
	if err := p.records.LoadAll(ctx); err != nil {
		p.logger.WithError(err).Error("failed to reload permissions")
	}
}
