package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"care_notification_service/internal/domain/user"
)

func setupMockUserDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresUserRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresUserRepository(db)
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "phone", "role", "is_active",
		"push_endpoint", "push_p256dh", "push_auth", "created_at", "updated_at",
	})
}

func TestUserGetByID_WithSubscription(t *testing.T) {
	db, mock, repo := setupMockUserDB(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM users`).
		WithArgs(int64(7)).
		WillReturnRows(userRows().AddRow(
			7, "Grandpa Joe", "joe@example.com", "+15550100", "elderly", true,
			"https://push.example/ep", "p256dh-key", "auth-secret", now, now,
		))

	u, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, u.PushSubscription)
	assert.Equal(t, "https://push.example/ep", u.PushSubscription.Endpoint)
	assert.Equal(t, "Grandpa Joe", u.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByID_NoSubscription(t *testing.T) {
	db, mock, repo := setupMockUserDB(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM users`).
		WithArgs(int64(8)).
		WillReturnRows(userRows().AddRow(
			8, "Alice", "alice@example.com", nil, "family", true,
			nil, nil, nil, now, now,
		))

	u, err := repo.GetByID(context.Background(), 8)
	require.NoError(t, err)
	assert.Nil(t, u.PushSubscription, "partial or absent endpoint data means no usable subscription")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByID_NotFound(t *testing.T) {
	db, mock, repo := setupMockUserDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM users`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePushSubscription(t *testing.T) {
	db, mock, repo := setupMockUserDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users`).
		WithArgs("https://push.example/ep", "p256dh-key", "auth-secret", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SavePushSubscription(context.Background(), 7, &user.PushSubscription{
		Endpoint: "https://push.example/ep",
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
