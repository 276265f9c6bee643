// internal/domain/user/repository.go
package user

import (
	"context"
)

// Repository defines the operations for retrieving User entities.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)

	// SavePushSubscription stores (or replaces) the user's push endpoint.
	SavePushSubscription(ctx context.Context, userID int64, sub *PushSubscription) error
}
