package entities

import (
	"fmt"
	"time"
)

// RecordID identifies a permission record. It is either a PersistedID assigned by
// the data store or a PendingID for a record that has not been saved yet.
type RecordID interface {
	fmt.Stringer
	recordID()
}

// PersistedID is the store-assigned identifier of a saved record
type PersistedID string

func (id PersistedID) String() string { return string(id) }
func (PersistedID) recordID()         {}

// PendingID is a session-local placeholder for a record created by a toggle.
// Pending ids never collide with persisted ones because they are a distinct type.
type PendingID uint64

func (id PendingID) String() string { return fmt.Sprintf("pending#%d", uint64(id)) }
func (PendingID) recordID()         {}

// IsPersisted reports whether the id was assigned by the data store
func IsPersisted(id RecordID) bool {
	_, ok := id.(PersistedID)
	return ok
}

// PermissionRecord holds the read/write/delete flags of one (profile, page key) pair
type PermissionRecord struct {
	ID        RecordID
	PageName  string  // Human-readable label (e.g., "Fluxo de Caixa")
	PageKey   PageKey // Governed resource (e.g., "FINANCE")
	ProfileID string  // Owning profile
	Permission
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Toggle flips the named flag and applies the dependency rules in the same step:
// enabling write or delete also enables read, disabling read also disables write and delete.
func (r *PermissionRecord) Toggle(field PermissionField) error {
	switch field {
	case FieldRead:
		r.CanRead = !r.CanRead
		if !r.CanRead {
			r.CanWrite = false
			r.CanDelete = false
		}
	case FieldWrite:
		r.CanWrite = !r.CanWrite
		if r.CanWrite {
			r.CanRead = true
		}
	case FieldDelete:
		r.CanDelete = !r.CanDelete
		if r.CanDelete {
			r.CanRead = true
		}
	default:
		return fmt.Errorf("unknown permission field: %q", field)
	}
	return nil
}

// Normalize restores canWrite ⇒ canRead and canDelete ⇒ canRead on a record
// that was built outside Toggle. Read is granted rather than write/delete revoked.
func (r *PermissionRecord) Normalize() {
	if r.CanWrite || r.CanDelete {
		r.CanRead = true
	}
}

// Consistent reports whether the dependency rules hold
func (r *PermissionRecord) Consistent() bool {
	return r.CanRead || (!r.CanWrite && !r.CanDelete)
}

// Clone returns a copy of the record
func (r *PermissionRecord) Clone() *PermissionRecord {
	c := *r
	return &c
}

// Validate checks that the required fields are present
func (r *PermissionRecord) Validate() error {
	if r.ID == nil {
		return fmt.Errorf("record ID is required")
	}
	if r.PageKey == "" {
		return fmt.Errorf("page key is required")
	}
	if r.ProfileID == "" {
		return fmt.Errorf("profile ID is required")
	}
	return nil
}

// String returns a representation such as "2/FINANCE r--"
func (r *PermissionRecord) String() string {
	return fmt.Sprintf("%s/%s %s", r.ProfileID, r.PageKey, r.Permission)
}
