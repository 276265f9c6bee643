// internal/domain/notify/notify.go
package notify

import (
	"context"
	"time"

	"care_notification_service/internal/domain/user"
)

// Channel is a delivery mechanism with its own availability and failure modes.
type Channel string

const (
	ChannelPush Channel = "push"
	ChannelSMS  Channel = "sms"
)

// Outcome is the result of a single dispatch attempt.
type Outcome string

const (
	OutcomeSent    Outcome = "sent"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped" // no endpoint / transport not configured
)

// Message is the payload handed to a channel transport.
type Message struct {
	Title string
	Body  string
}

// Recipient is the minimal addressing information a dispatch needs. Either
// field may be absent; the gateway turns an absent endpoint into a skipped
// outcome rather than an error.
type Recipient struct {
	Name             string
	Phone            string
	PushSubscription *user.PushSubscription
}

// Event records one dispatch attempt. It is a transient value produced for
// the caller's logging and aggregation; it is never persisted and never
// carries an error that could abort the caller's control flow.
type Event struct {
	ID        string // correlation id
	Recipient string
	Channel   Channel
	Title     string
	Body      string
	Outcome   Outcome
	Reason    string // populated for failed / skipped
	At        time.Time
}

// Gateway is the single choke point every notification flows through.
// Dispatch never returns an error: transport failures, missing endpoints and
// unconfigured channels are all encoded in the Event outcome, because one
// recipient's failure must not block notifications to others.
type Gateway interface {
	Dispatch(ctx context.Context, rcpt Recipient, channel Channel, msg Message) Event
}
