package entities

import "fmt"

// Permission is the effective read/write/delete decision for one page
type Permission struct {
	CanRead   bool
	CanWrite  bool
	CanDelete bool
}

// FullAccess returns a permission with every flag set
func FullAccess() Permission {
	return Permission{CanRead: true, CanWrite: true, CanDelete: true}
}

// Denied returns a permission with every flag cleared
func Denied() Permission {
	return Permission{}
}

// CanEnter reports whether a view governed by this permission may be opened
func (p Permission) CanEnter() bool {
	return p.CanRead || p.CanWrite
}

// String returns a compact rwd representation (e.g. "rw-")
func (p Permission) String() string {
	b := []byte("---")
	if p.CanRead {
		b[0] = 'r'
	}
	if p.CanWrite {
		b[1] = 'w'
	}
	if p.CanDelete {
		b[2] = 'd'
	}
	return string(b)
}

// PermissionField names one of the three permission flags
type PermissionField string

const (
	FieldRead   PermissionField = "canRead"
	FieldWrite  PermissionField = "canWrite"
	FieldDelete PermissionField = "canDelete"
)

// ParsePermissionField converts a field name into a PermissionField
func ParsePermissionField(s string) (PermissionField, error) {
	switch PermissionField(s) {
	case FieldRead, FieldWrite, FieldDelete:
		return PermissionField(s), nil
	}
	return "", fmt.Errorf("unknown permission field: %q", s)
}
