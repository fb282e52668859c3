package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

// PostgresProfileRepository implements ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	db *sql.DB
}

// NewPostgresProfileRepository creates a new PostgreSQL profile repository
func NewPostgresProfileRepository(db *sql.DB) repositories.ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// List retrieves all profiles ordered by id
func (r *PostgresProfileRepository) List(ctx context.Context) ([]*entities.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*entities.Profile
	for rows.Next() {
		var p entities.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// Get retrieves one profile
func (r *PostgresProfileRepository) Get(ctx context.Context, id string) (*entities.Profile, error) {
	var p entities.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM profiles WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// Create inserts a new profile
func (r *PostgresProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, name, description) VALUES ($1, $2, $3)`,
		profile.ID, profile.Name, profile.Description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("profile %s: %w", profile.ID, repositories.ErrConflict)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Update modifies name and description of an existing profile
func (r *PostgresProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET name = $2, description = $3 WHERE id = $1`,
		profile.ID, profile.Name, profile.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return expectAffected(res, "profile", profile.ID)
}

// Delete removes a profile; permission records follow through ON DELETE CASCADE
func (r *PostgresProfileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return expectAffected(res, "profile", id)
}
