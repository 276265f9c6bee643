// internal/domain/obligation/repository.go
package obligation

import (
	"context"
	"time"
)

// Repository defines persistence operations for Obligation records.
//
// ClaimReminder and MarkMissed are conditional writes: they succeed only if
// the record is still in the expected prior state, and report a lost race as
// (false, nil). Callers treat a lost race as benign — another actor already
// made the same transition.
type Repository interface {
	Create(ctx context.Context, o *Obligation) error
	GetByID(ctx context.Context, id int64) (*Obligation, error)
	Delete(ctx context.Context, id int64) error

	// ListActiveUnreminded returns obligations with status = ACTIVE and
	// reminder_sent = FALSE, the reminder scanner's candidate set.
	ListActiveUnreminded(ctx context.Context) ([]*Obligation, error)

	// ListActive returns every ACTIVE obligation. The overdue scanner
	// filters by due instant in Go so one malformed time-of-day cannot
	// abort the whole scan.
	ListActive(ctx context.Context) ([]*Obligation, error)

	// ClaimReminder flips reminder_sent false -> true, recording the channel
	// and timestamp, iff reminder_sent was still false and the record is
	// still ACTIVE.
	ClaimReminder(ctx context.Context, id int64, channel string, sentAt time.Time) (bool, error)

	// MarkMissed transitions ACTIVE -> MISSED. Irreversible by this core.
	MarkMissed(ctx context.Context, id int64) (bool, error)

	// MarkCompleted transitions ACTIVE -> COMPLETED and stamps
	// last_completed_at. Invoked on behalf of the user (e.g. "dose taken").
	MarkCompleted(ctx context.Context, id int64, completedAt time.Time) (bool, error)
}
