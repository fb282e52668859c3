package repositories

import (
	"context"

	"github.com/celsoprodesp/Antigravity/internal/entities"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// List retrieves all users
	List(ctx context.Context) ([]*entities.User, error)

	// Create inserts a new user
	Create(ctx context.Context, user *entities.User) error

	// Update modifies an existing user
	Update(ctx context.Context, user *entities.User) error

	// Delete removes a user
	Delete(ctx context.Context, id string) error
}
