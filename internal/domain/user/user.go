// internal/domain/user/user.go
package user

import (
	"database/sql"
	"time"
)

// Role classifies the account within the caregiving circle.
type Role string

const (
	RoleElderly   Role = "elderly"
	RoleFamily    Role = "family"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// PushSubscription holds the browser push endpoint a user registered.
// All three fields are required by the Web Push protocol.
type PushSubscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// User represents an account in the system. The dispatch core reads users to
// resolve names and push endpoints; account management lives elsewhere.
type User struct {
	ID               int64
	Name             string
	Email            string
	Phone            sql.NullString
	Role             Role
	IsActive         bool
	PushSubscription *PushSubscription // nil when the user never subscribed
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
