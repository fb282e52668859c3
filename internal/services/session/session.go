// Package session resolves the acting user from the authentication boundary.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

var (
	// ErrNoSession is returned when nobody is signed in
	ErrNoSession = errors.New("no active session")

	// ErrUnknownPrincipal is returned when the signed-in email matches no user
	ErrUnknownPrincipal = errors.New("session email does not match any user")
)

// Authenticator is the boundary to the external authentication service
type Authenticator interface {
	// CurrentEmail returns the email of the signed-in principal, or "" when signed out
	CurrentEmail(ctx context.Context) (string, error)

	// SignOut ends the session
	SignOut(ctx context.Context) error
}

// StaticAuthenticator is an in-process Authenticator holding one email
type StaticAuthenticator struct {
	mu    sync.Mutex
	email string
}

// NewStaticAuthenticator creates an authenticator signed in as email
func NewStaticAuthenticator(email string) *StaticAuthenticator {
	return &StaticAuthenticator{email: email}
}

// SignIn replaces the signed-in email
func (a *StaticAuthenticator) SignIn(email string) {
	a.mu.Lock()
	a.email = email
	a.mu.Unlock()
}

func (a *StaticAuthenticator) CurrentEmail(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.email, nil
}

func (a *StaticAuthenticator) SignOut(ctx context.Context) error {
	a.SignIn("")
	return nil
}

// Service maps the authenticated principal onto an application user
type Service struct {
	auth  Authenticator
	users repositories.UserRepository
}

// NewService creates a new Service
func NewService(auth Authenticator, users repositories.UserRepository) *Service {
	return &Service{auth: auth, users: users}
}

// ActingUser returns the user whose email matches the session, ignoring case and surrounding spaces
func (s *Service) ActingUser(ctx context.Context) (*entities.User, error) {
	email, err := s.auth.CurrentEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrNoSession
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(strings.TrimSpace(u.Email), email) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPrincipal, email)
}

// SignOut ends the session at the authentication service
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}
