// Package app wires the access-control core into one per-process application state.
package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/celsoprodesp/Antigravity/internal/services/access"
	"github.com/celsoprodesp/Antigravity/internal/services/admin"
	"github.com/celsoprodesp/Antigravity/internal/services/session"
)

// Dependencies are the collaborators State is built from
type Dependencies struct {
	Profiles      repositories.ProfileRepository
	Users         repositories.UserRepository
	Permissions   repositories.PermissionRepository
	Authenticator session.Authenticator
	Logger        logrus.FieldLogger
	Recorder      access.Recorder // optional
	Notifier      access.Notifier // optional, receives navigation denials
}

// State is the application state of one session. Each slice has its own entry points:
// session (SignIn, SignOut, User), navigation (Navigate, GoBack, Guard) and
// permissions (Editor, SavePermissions, CreateProfile, DeleteProfile).
type State struct {
	logger   logrus.FieldLogger
	recorder access.Recorder
	notifier access.Notifier

	session   *session.Service
	records   *access.RecordStore
	evaluator *access.Evaluator
	editor    *access.Editor
	profiles  *admin.ProfileService
	users     *admin.UserService

	user  *entities.User
	guard *access.Guard
}

// New builds a State. Records are not loaded until Load is called.
func New(deps Dependencies) *State {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	records := access.NewRecordStore(deps.Permissions)
	return &State{
		logger:    logger,
		recorder:  deps.Recorder,
		notifier:  deps.Notifier,
		session:   session.NewService(deps.Authenticator, deps.Users),
		records:   records,
		evaluator: access.NewEvaluator(records, deps.Recorder),
		editor:    access.NewEditor(records, deps.Permissions, logger, deps.Recorder),
		profiles:  admin.NewProfileService(deps.Profiles, deps.Permissions, logger),
		users:     admin.NewUserService(deps.Users, logger),
	}
}

// Load reads every permission record from the data store
func (s *State) Load(ctx context.Context) error {
	return s.records.LoadAll(ctx)
}

// SignIn resolves the acting user from the session and starts navigation on the Dashboard
func (s *State) SignIn(ctx context.Context) (*entities.User, error) {
	user, err := s.session.ActingUser(ctx)
	if err != nil {
		return nil, err
	}

	s.user = user
	if s.guard == nil {
		opts := []access.GuardOption{access.WithGuardLogger(s.logger)}
		if s.notifier != nil {
			opts = append(opts, access.WithNotifier(s.notifier))
		}
		if s.recorder != nil {
			opts = append(opts, access.WithGuardRecorder(s.recorder))
		}
		s.guard = access.NewGuard(s.evaluator, user.Subject(), opts...)
	} else {
		s.guard.SetSubject(user.Subject())
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "profile_id": user.ProfileID}).Info("signed in")
	return user, nil
}

// SignOut ends the session and forgets the acting user
func (s *State) SignOut(ctx context.Context) error {
	if err := s.session.SignOut(ctx); err != nil {
		return err
	}
	s.user = nil
	s.guard = nil
	s.editor.SelectProfile("")
	return nil
}

// User returns the acting user, or nil when signed out
func (s *State) User() *entities.User {
	return s.user
}

// Guard returns the navigation guard, or nil when signed out
func (s *State) Guard() *access.Guard {
	return s.guard
}

// Navigate moves the session to view through the guard
func (s *State) Navigate(view entities.View, entityID string) error {
	if s.guard == nil {
		return session.ErrNoSession
	}
	return s.guard.Navigate(view, entityID)
}

// GoBack returns to the previous view
func (s *State) GoBack() {
	if s.guard != nil {
		s.guard.GoBack()
	}
}

// Evaluator returns the permission evaluator shared by the session
func (s *State) Evaluator() *access.Evaluator {
	return s.evaluator
}

// Records returns the in-memory permission records
func (s *State) Records() *access.RecordStore {
	return s.records
}

// Editor returns the permission editor
func (s *State) Editor() *access.Editor {
	return s.editor
}

// Profiles returns the profile registration service
func (s *State) Profiles() *admin.ProfileService {
	return s.profiles
}

// Users returns the user registration service
func (s *State) Users() *admin.UserService {
	return s.users
}

// SavePermissions persists the profile selected in the editor
func (s *State) SavePermissions(ctx context.Context) error {
	return s.editor.Save(ctx, s.editor.Selected())
}

// CreateProfile registers a profile and loads its default records
func (s *State) CreateProfile(ctx context.Context, name, description string) (*entities.Profile, error) {
	profile, err := s.profiles.Create(ctx, name, description)
	if profile != nil {
		if loadErr := s.records.LoadProfile(ctx, profile.ID); loadErr != nil && err == nil {
			err = loadErr
		}
	}
	return profile, err
}

// DeleteProfile removes a profile together with its records
func (s *State) DeleteProfile(ctx context.Context, id string) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return err
	}
	s.records.DropProfile(id)
	if s.editor.Selected() == id {
		s.editor.SelectProfile("")
	}
	return nil
}
