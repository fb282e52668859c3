package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, repositories.ErrNotFound)
	}
	return nil
}
