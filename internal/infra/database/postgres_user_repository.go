// internal/infra/database/postgres_user_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"care_notification_service/internal/domain/user"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var ErrUserNotFound = fmt.Errorf("user not found")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT id, name, email, phone, role, is_active,
                      push_endpoint, push_p256dh, push_auth, created_at, updated_at
               FROM users WHERE id = $1`

	u := &user.User{}
	var endpoint, p256dh, auth sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.IsActive,
		&endpoint, &p256dh, &auth, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}

	// A subscription is only usable when all three parts are present.
	if endpoint.Valid && p256dh.Valid && auth.Valid {
		u.PushSubscription = &user.PushSubscription{
			Endpoint: endpoint.String,
			P256dh:   p256dh.String,
			Auth:     auth.String,
		}
	}
	return u, nil
}

func (r *PostgresUserRepository) SavePushSubscription(ctx context.Context, userID int64, sub *user.PushSubscription) error {
	query := `UPDATE users
               SET push_endpoint = $1, push_p256dh = $2, push_auth = $3, updated_at = NOW()
               WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, sub.Endpoint, sub.P256dh, sub.Auth, userID)
	if err != nil {
		return fmt.Errorf("error saving push subscription for user %d: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking push subscription update for user %d: %w", userID, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
