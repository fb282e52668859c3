package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

// UserService handles user registration
type UserService struct {
	users  repositories.UserRepository
	logger logrus.FieldLogger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, logger logrus.FieldLogger) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{users: users, logger: logger}
}

// Create registers a user attached to profileID. role is optional.
func (s *UserService) Create(ctx context.Context, name, email, profileID, role string) (*entities.User, error) {
	user := &entities.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		ProfileID: profileID,
		Role:      strings.TrimSpace(role),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "profile_id": profileID}).Info("user created")
	return user, nil
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]*entities.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("user ID is required")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
