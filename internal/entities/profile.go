package entities

import (
	"fmt"
	"time"
)

// AdministratorProfileID is the reserved profile with implicit full access.
// Its permission records are never edited or persisted through the editor.
const AdministratorProfileID = "1"

// Profile is a named access level to which users and permission records are attached
type Profile struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// IsAdministrator reports whether this is the reserved Administrator profile
func (p *Profile) IsAdministrator() bool {
	return p.ID == AdministratorProfileID
}

// Validate checks that the required fields are present
func (p *Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile ID is required")
	}
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	return nil
}
