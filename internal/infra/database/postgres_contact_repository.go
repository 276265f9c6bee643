// internal/infra/database/postgres_contact_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"care_notification_service/internal/domain/contact"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var ErrContactNotFound = fmt.Errorf("emergency contact not found")

const contactColumns = `id, user_id, name, phone, relationship, notes, linked_user_id, is_primary, created_at, updated_at`

type PostgresContactRepository struct {
	db *sql.DB
}

func NewPostgresContactRepository(db *sql.DB) *PostgresContactRepository {
	return &PostgresContactRepository{db: db}
}

func (r *PostgresContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	query := `INSERT INTO emergency_contacts (user_id, name, phone, relationship, notes, linked_user_id, is_primary)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.UserID, c.Name, c.Phone, c.Relationship, c.Notes, c.LinkedUserID, c.IsPrimary,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating emergency contact: %w", err)
	}
	return nil
}

func (r *PostgresContactRepository) GetByID(ctx context.Context, id int64) (*contact.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM emergency_contacts WHERE id = $1`
	c := &contact.Contact{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Relationship, &c.Notes, &c.LinkedUserID, &c.IsPrimary, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("error getting emergency contact by ID: %w", err)
	}
	return c, nil
}

func (r *PostgresContactRepository) Update(ctx context.Context, c *contact.Contact) error {
	query := `UPDATE emergency_contacts
               SET name = $1, phone = $2, relationship = $3, notes = $4, linked_user_id = $5, updated_at = NOW()
               WHERE id = $6 AND user_id = $7
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, c.Name, c.Phone, c.Relationship, c.Notes, c.LinkedUserID, c.ID, c.UserID).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrContactNotFound
		}
		return fmt.Errorf("error updating emergency contact: %w", err)
	}
	return nil
}

func (r *PostgresContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM emergency_contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting emergency contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted emergency contact: %w", err)
	}
	if affected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *PostgresContactRepository) ListByUser(ctx context.Context, userID int64) ([]*contact.Contact, error) {
	query := `SELECT ` + contactColumns + `
               FROM emergency_contacts WHERE user_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing emergency contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*contact.Contact, 0)
	for rows.Next() {
		c := &contact.Contact{}
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Relationship, &c.Notes, &c.LinkedUserID, &c.IsPrimary, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning emergency contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emergency contacts: %w", err)
	}
	return contacts, nil
}

// SetPrimary clears the user's previous primary inside the same transaction,
// so the at-most-one-primary invariant holds even under concurrent edits.
func (r *PostgresContactRepository) SetPrimary(ctx context.Context, userID, contactID int64) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for set primary: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	if _, err := txn.ExecContext(ctx,
		`UPDATE emergency_contacts SET is_primary = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_primary = TRUE`,
		userID,
	); err != nil {
		return fmt.Errorf("error clearing previous primary contact: %w", err)
	}

	res, err := txn.ExecContext(ctx,
		`UPDATE emergency_contacts SET is_primary = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2`,
		contactID, userID,
	)
	if err != nil {
		return fmt.Errorf("error setting primary contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking primary contact update: %w", err)
	}
	if affected == 0 {
		return ErrContactNotFound
	}

	return txn.Commit()
}
