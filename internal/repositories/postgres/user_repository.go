package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db *sql.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *sql.DB) repositories.UserRepository {
	return &PostgresUserRepository{db: db}
}

// List retrieves all users
func (r *PostgresUserRepository) List(ctx context.Context) ([]*entities.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, profile_id, avatar, role, created_at
		FROM users
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		var (
			u            entities.User
			avatar, role sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.ProfileID, &avatar, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Avatar = avatar.String
		u.Role = role.String
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Create inserts a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *entities.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, profile_id, avatar, role)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		user.ID, user.Name, user.Email, user.ProfileID,
		nullString(user.Avatar), nullString(user.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Email, repositories.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update modifies an existing user
func (r *PostgresUserRepository) Update(ctx context.Context, user *entities.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, email = $3, profile_id = $4, avatar = $5, role = $6
		WHERE id = $1
	`,
		user.ID, user.Name, user.Email, user.ProfileID,
		nullString(user.Avatar), nullString(user.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Email, repositories.ErrConflict)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return expectAffected(res, "user", user.ID)
}

// Delete removes a user
func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectAffected(res, "user", id)
}
