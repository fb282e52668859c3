package entities

import (
	"fmt"
	"strings"
	"time"
)

// AdministratorRole is the display role that marks a user as administrator
// independently of the profile it is attached to.
const AdministratorRole = "Super Admin"

// User is an application user attached to exactly one profile
type User struct {
	ID        string
	Name      string
	Email     string
	ProfileID string
	Avatar    string // Optional avatar URL
	Role      string // Optional display role (e.g., "Vendas")
	CreatedAt time.Time
}

// IsAdministrator reports whether the user carries the administrator role marker
func (u *User) IsAdministrator() bool {
	return strings.EqualFold(strings.TrimSpace(u.Role), AdministratorRole)
}

// Subject returns the access-control subject acting on behalf of this user
func (u *User) Subject() Subject {
	return Subject{ProfileID: u.ProfileID, Administrator: u.IsAdministrator()}
}

// Initials returns up to two upper-case initials of the user's name
func (u *User) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(u.Name) {
		initials = append(initials, []rune(strings.ToUpper(part))[0])
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

// Validate checks that the required fields are present
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user ID is required")
	}
	if u.Name == "" {
		return fmt.Errorf("user name is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user email is required")
	}
	if u.ProfileID == "" {
		return fmt.Errorf("user profile is required")
	}
	return nil
}

// Subject is the principal a permission is evaluated for
type Subject struct {
	ProfileID     string
	Administrator bool // Explicit administrator role marker
}

// IsAdministrator reports whether the subject bypasses stored permissions
func (s Subject) IsAdministrator() bool {
	return s.Administrator || s.ProfileID == AdministratorProfileID
}
