package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/celsoprodesp/Antigravity/internal/entities"
	"github.com/celsoprodesp/Antigravity/internal/repositories"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "email", "profile_id", "avatar", "role", "created_at"}).
		AddRow("1", "Administrador Sistema", "admin@erpr.com", "1", nil, "Super Admin", time.Now()).
		AddRow("2", "João Silva", "joao.silva@erpr.com", "2", "https://example.com/j.png", nil, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnRows(rows)

	users, err := NewPostgresUserRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.True(t, users[0].IsAdministrator())
	assert.Empty(t, users[0].Avatar)
	assert.Equal(t, "https://example.com/j.png", users[1].Avatar)
	assert.Empty(t, users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	err = NewPostgresUserRepository(db).Create(context.Background(), &entities.User{
		ID: "9", Name: "Outro", Email: "admin@erpr.com", ProfileID: "2",
	})
	assert.True(t, errors.Is(err, repositories.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewPostgresUserRepository(db).Update(context.Background(), &entities.User{
		ID: "42", Name: "Ninguém", Email: "x@erpr.com", ProfileID: "2",
	})
	assert.True(t, errors.Is(err, repositories.ErrNotFound))
}
