// internal/domain/contact/contact.go
package contact

import (
	"database/sql"
	"time"
)

// Contact is an emergency contact registered by a user.
// Corresponds to the 'emergency_contacts' table.
type Contact struct {
	ID           int64
	UserID       int64
	Name         string
	Phone        sql.NullString // optional; SMS is only attempted when present
	Relationship sql.NullString
	Notes        sql.NullString
	// LinkedUserID is set when the contact also holds an account in the
	// system; their push subscription is then used for push alerts.
	LinkedUserID sql.NullInt64
	IsPrimary    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
