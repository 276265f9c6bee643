// internal/infra/database/postgres_obligation_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"care_notification_service/internal/domain/obligation"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors specific to obligation repository
var ErrObligationNotFound = fmt.Errorf("obligation not found")

const obligationColumns = `id, user_id, kind, title, detail, due_date, time_of_day, status,
               reminder_sent, reminder_channel, reminder_sent_at, last_completed_at, created_at, updated_at`

type PostgresObligationRepository struct {
	db *sql.DB
}

func NewPostgresObligationRepository(db *sql.DB) *PostgresObligationRepository {
	return &PostgresObligationRepository{db: db}
}

func (r *PostgresObligationRepository) Create(ctx context.Context, o *obligation.Obligation) error {
	query := `INSERT INTO obligations (user_id, kind, title, detail, due_date, time_of_day, status, reminder_sent)
               VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
               RETURNING id, created_at, updated_at`

	if o.Status == "" {
		o.Status = obligation.StatusActive
	}
	err := r.db.QueryRowContext(ctx, query,
		o.UserID, o.Kind, o.Title, o.Detail, o.Date, o.TimeOfDay, o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating obligation: %w", err)
	}
	return nil
}

func (r *PostgresObligationRepository) GetByID(ctx context.Context, id int64) (*obligation.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE id = $1`
	o := &obligation.Obligation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&o.ID, &o.UserID, &o.Kind, &o.Title, &o.Detail, &o.Date, &o.TimeOfDay, &o.Status,
		&o.ReminderSent, &o.ReminderChannel, &o.ReminderSentAt, &o.LastCompletedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrObligationNotFound
		}
		return nil, fmt.Errorf("error getting obligation by ID: %w", err)
	}
	return o, nil
}

func (r *PostgresObligationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM obligations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting obligation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted obligation: %w", err)
	}
	if affected == 0 {
		return ErrObligationNotFound
	}
	return nil
}

func (r *PostgresObligationRepository) ListActiveUnreminded(ctx context.Context) ([]*obligation.Obligation, error) {
	query := `SELECT ` + obligationColumns + `
               FROM obligations
               WHERE status = $1 AND reminder_sent = FALSE
               ORDER BY due_date, time_of_day`

	rows, err := r.db.QueryContext(ctx, query, obligation.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("error listing unreminded obligations: %w", err)
	}
	defer rows.Close()
	return scanObligations(rows)
}

func (r *PostgresObligationRepository) ListActive(ctx context.Context) ([]*obligation.Obligation, error) {
	query := `SELECT ` + obligationColumns + `
               FROM obligations
               WHERE status = $1
               ORDER BY due_date, time_of_day`

	rows, err := r.db.QueryContext(ctx, query, obligation.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("error listing active obligations: %w", err)
	}
	defer rows.Close()
	return scanObligations(rows)
}

// ClaimReminder is the compare-and-set that keeps reminders exactly-once:
// only the tick that observes reminder_sent = FALSE at write time wins.
func (r *PostgresObligationRepository) ClaimReminder(ctx context.Context, id int64, channel string, sentAt time.Time) (bool, error) {
	query := `UPDATE obligations
               SET reminder_sent = TRUE, reminder_channel = $1, reminder_sent_at = $2, updated_at = NOW()
               WHERE id = $3 AND reminder_sent = FALSE AND status = $4`

	res, err := r.db.ExecContext(ctx, query, channel, sentAt, id, obligation.StatusActive)
	if err != nil {
		return false, fmt.Errorf("error claiming reminder for obligation %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking reminder claim for obligation %d: %w", id, err)
	}
	return affected == 1, nil
}

func (r *PostgresObligationRepository) MarkMissed(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE obligations
               SET status = $1, updated_at = NOW()
               WHERE id = $2 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, obligation.StatusMissed, id, obligation.StatusActive)
	if err != nil {
		return false, fmt.Errorf("error marking obligation %d missed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking missed transition for obligation %d: %w", id, err)
	}
	return affected == 1, nil
}

func (r *PostgresObligationRepository) MarkCompleted(ctx context.Context, id int64, completedAt time.Time) (bool, error) {
	query := `UPDATE obligations
               SET status = $1, last_completed_at = $2, updated_at = NOW()
               WHERE id = $3 AND status = $4`

	res, err := r.db.ExecContext(ctx, query, obligation.StatusCompleted, completedAt, id, obligation.StatusActive)
	if err != nil {
		return false, fmt.Errorf("error marking obligation %d completed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error checking completion for obligation %d: %w", id, err)
	}
	return affected == 1, nil
}

func scanObligations(rows *sql.Rows) ([]*obligation.Obligation, error) {
	obligations := make([]*obligation.Obligation, 0)
	for rows.Next() {
		o := &obligation.Obligation{}
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Kind, &o.Title, &o.Detail, &o.Date, &o.TimeOfDay, &o.Status,
			&o.ReminderSent, &o.ReminderChannel, &o.ReminderSentAt, &o.LastCompletedAt, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning obligation: %w", err)
		}
		obligations = append(obligations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating obligations: %w", err)
	}
	return obligations, nil
}
