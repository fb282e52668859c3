package repositories

import (
	"context"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

// ProfileRepository defines the interface for profile data access
type ProfileRepository interface {
	// List retrieves all profiles ordered by id
	List(ctx context.Context) ([]*entities.Profile, error)

	// Get retrieves one profile, returning ErrNotFound when absent
	Get(ctx context.Context, id string) (*entities.Profile, error)

	// Create inserts a new profile
	Create(ctx context.Context, profile *entities.Profile) error

	// Update modifies name and description of an existing profile
	Update(ctx context.Context, profile *entities.Profile) error

	// Delete removes a profile and, by cascade, its permission records
	Delete(ctx context.Context, id string) error
}
