package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
)

const permissionColumns = `id, page_name, page_key, profile_id, can_read, can_write, can_delete, created_at, updated_at`

// PostgresPermissionRepository implements PermissionRepository using PostgreSQL
type PostgresPermissionRepository struct {
	db *sql.DB
}

// NewPostgresPermissionRepository creates a new PostgreSQL permission repository
func NewPostgresPermissionRepository(db *sql.DB) repositories.PermissionRepository {
	return &PostgresPermissionRepository{db: db}
}

// List retrieves every permission record
func (r *PostgresPermissionRepository) List(ctx context.Context) ([]*entities.PermissionRecord, error) {
	query := `SELECT ` + permissionColumns + ` FROM permission_records ORDER BY profile_id, page_key`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list permission records: %w", err)
	}
	defer rows.Close()

	return scanPermissionRecords(rows)
}

// ListByProfile retrieves the permission records of one profile
func (r *PostgresPermissionRepository) ListByProfile(ctx context.Context, profileID string) ([]*entities.PermissionRecord, error) {
	query := `SELECT ` + permissionColumns + ` FROM permission_records WHERE profile_id = $1 ORDER BY page_key`
	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list permission records: %w", err)
	}
	defer rows.Close()

	return scanPermissionRecords(rows)
}

// BatchUpsert inserts or updates records keyed by id in a single transaction
func (r *PostgresPermissionRepository) BatchUpsert(ctx context.Context, records []*entities.PermissionRecord) error {
	if len(records) == 0 {
		return nil
	}

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("invalid permission record at index %d: %w", i, err)
		}
		if !entities.IsPersisted(rec.ID) {
			return fmt.Errorf("permission record at index %d has pending id %s", i, rec.ID)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO permission_records (
			id, page_name, page_key, profile_id, can_read, can_write, can_delete, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (id) DO UPDATE SET
			page_name = EXCLUDED.page_name,
			page_key = EXCLUDED.page_key,
			profile_id = EXCLUDED.profile_id,
			can_read = EXCLUDED.can_read,
			can_write = EXCLUDED.can_write,
			can_delete = EXCLUDED.can_delete,
			updated_at = EXCLUDED.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.ID.String(), rec.PageName, string(rec.PageKey), rec.ProfileID,
			rec.CanRead, rec.CanWrite, rec.CanDelete, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("permission record %s/%s: %w", rec.ProfileID, rec.PageKey, repositories.ErrConflict)
			}
			return fmt.Errorf("failed to upsert permission record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteByProfile removes all records of a profile
func (r *PostgresPermissionRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM permission_records WHERE profile_id = $1`, profileID)
	if err != nil {
		return fmt.Errorf("failed to delete permission records: %w", err)
	}
	return nil
}

func scanPermissionRecords(rows *sql.Rows) ([]*entities.PermissionRecord, error) {
	var records []*entities.PermissionRecord
	for rows.Next() {
		var (
			rec     entities.PermissionRecord
			id      string
			pageKey string
		)
		err := rows.Scan(
			&id, &rec.PageName, &pageKey, &rec.ProfileID,
			&rec.CanRead, &rec.CanWrite, &rec.CanDelete,
			&rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan permission record: %w", err)
		}
		rec.ID = entities.PersistedID(id)
		rec.PageKey = entities.PageKey(pageKey)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating permission records: %w", err)
	}

	return records, nil
}
