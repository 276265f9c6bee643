// internal/domain/obligation/obligation.go
package obligation

import (
	"database/sql"
	"time"
)

// Obligation is one time-bound duty: a medicine dose or a task instance.
// Corresponds to the 'obligations' table.
type Obligation struct {
	ID              int64
	UserID          int64
	Kind            Kind
	Title           string         // medicine name or task title
	Detail          sql.NullString // dosage or task description
	Date            time.Time      // calendar date of the occurrence
	TimeOfDay       string         // "HH:MM", stored as entered by the user
	Status          Status
	ReminderSent    bool
	ReminderChannel sql.NullString // channel the reminder went out on
	ReminderSentAt  sql.NullTime
	LastCompletedAt sql.NullTime // e.g. when the dose was last taken
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
