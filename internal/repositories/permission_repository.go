package repositories

import (
	"context"
	"errors"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a row violates a uniqueness constraint
	ErrConflict = errors.New("conflict")
)

// PermissionRepository defines the interface for permission record data access
type PermissionRepository interface {
	// List retrieves every permission record
	List(ctx context.Context) ([]*entities.PermissionRecord, error)

	// ListByProfile retrieves the permission records of one profile
	ListByProfile(ctx context.Context, profileID string) ([]*entities.PermissionRecord, error)

	// BatchUpsert inserts or updates records keyed by id in a single transaction.
	// Every record must carry a PersistedID.
	BatchUpsert(ctx context.Context, records []*entities.PermissionRecord) error

	// DeleteByProfile removes all records of a profile
	DeleteByProfile(ctx context.Context, profileID string) error
}
