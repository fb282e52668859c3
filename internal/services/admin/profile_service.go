// Package admin implements profile and user registration.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

// ErrAdministratorProfile is returned when a change targets the reserved Administrator profile
var ErrAdministratorProfile = errors.New("administrator profile cannot be modified")

// ProfileService handles profile registration
type ProfileService struct {
	profiles    repositories.ProfileRepository
	permissions repositories.PermissionRepository
	logger      logrus.FieldLogger
}

// NewProfileService creates a new ProfileService
func NewProfileService(profiles repositories.ProfileRepository, permissions repositories.PermissionRepository, logger logrus.FieldLogger) *ProfileService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProfileService{
		profiles:    profiles,
		permissions: permissions,
		logger:      logger,
	}
}

// Create inserts a profile and then one all-false permission record per catalog page.
// The two writes are independent: when the second fails the profile stays without records.
func (s *ProfileService) Create(ctx context.Context, name, description string) (*entities.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("profile name is required")
	}

	profile := &entities.Profile{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	records := make([]*entities.PermissionRecord, 0, len(entities.PageCatalog))
	for _, page := range entities.PageCatalog {
		records = append(records, &entities.PermissionRecord{
			ID:        entities.PersistedID(uuid.NewString()),
			PageName:  page.Name,
			PageKey:   page.Key,
			ProfileID: profile.ID,
		})
	}
	if err := s.permissions.BatchUpsert(ctx, records); err != nil {
		s.logger.WithError(err).WithField("profile_id", profile.ID).Error("profile created without default permissions")
		return profile, fmt.Errorf("failed to create default permissions: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"profile_id": profile.ID, "name": profile.Name}).Info("profile created")
	return profile, nil
}

// List returns every profile
func (s *ProfileService) List(ctx context.Context) ([]*entities.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Rename changes the name and description of a profile
func (s *ProfileService) Rename(ctx context.Context, id, name, description string) error {
	if id == entities.AdministratorProfileID {
		return ErrAdministratorProfile
	}
	profile := &entities.Profile{ID: id, Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// Delete removes a profile together with its permission records
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("profile ID is required")
	}
	if id == entities.AdministratorProfileID {
		return ErrAdministratorProfile
	}
	if err := s.profiles.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	s.logger.WithField("profile_id", id).Info("profile deleted")
	return nil
}
