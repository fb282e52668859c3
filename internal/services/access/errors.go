package access

import (
	"errors"
	"fmt"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

var (
	// ErrAccessDenied matches every *AccessDeniedError
	ErrAccessDenied = errors.New("access denied")

	// ErrPersistence matches every *PersistenceError
	ErrPersistence = errors.New("persistence failure")

	// ErrAdministratorProfile is returned when an edit targets the Administrator profile
	ErrAdministratorProfile = errors.New("administrator profile permissions are not editable")

	// ErrNoProfileSelected is returned when the editor has no profile to work on
	ErrNoProfileSelected = errors.New("no profile selected")

	// ErrRecordNotFound is returned when a toggle names a record the selected profile does not have
	ErrRecordNotFound = errors.New("permission record not found")
)

// AccessDeniedError describes a blocked navigation or action
type AccessDeniedError struct {
	View      entities.View
	PageKey   entities.PageKey
	ProfileID string
	// Action is the flag that was required; empty for navigation
	Action entities.PermissionField
}

func (e *AccessDeniedError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("access denied: profile %s lacks %s on %s", e.ProfileID, e.Action, e.PageKey)
	}
	return fmt.Sprintf("access denied: profile %s cannot open %s", e.ProfileID, e.View)
}

// Is reports whether target is ErrAccessDenied
func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}

// PersistenceError reports that the data store rejected an operation.
// Local state is left as it was before the call.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPersistence
func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
