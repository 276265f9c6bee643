// internal/domain/contact/repository.go
package contact

import (
	"context"
)

// Repository defines persistence operations for emergency contacts.
// The dispatch core only reads (ListByUser); the mutating operations serve
// the surrounding API layer.
type Repository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id int64) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id int64) error

	// ListByUser returns the user's contacts ordered by name.
	ListByUser(ctx context.Context, userID int64) ([]*Contact, error)

	// SetPrimary marks the given contact as the user's primary contact and
	// clears the previous primary in the same transaction, so at most one
	// contact per user ever has is_primary = true.
	SetPrimary(ctx context.Context, userID, contactID int64) error
}
