package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"care_notification_service/internal/domain/contact"
	"care_notification_service/internal/domain/notify"
	"care_notification_service/internal/domain/obligation"
	"care_notification_service/internal/domain/user"
)

// memObligationRepo is an in-memory Repository with the same conditional
// write semantics as the Postgres implementation, guarded by one mutex so
// concurrent scan ticks exercise real races.
type memObligationRepo struct {
	mu      sync.Mutex
	records map[int64]*obligation.Obligation
	nextID  int64
	listErr error
}

func newMemObligationRepo() *memObligationRepo {
	return &memObligationRepo{records: map[int64]*obligation.Obligation{}, nextID: 1}
}

func (r *memObligationRepo) add(o *obligation.Obligation) *obligation.Obligation {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	if o.Status == "" {
		o.Status = obligation.StatusActive
	}
	r.records[o.ID] = o
	return o
}

func (r *memObligationRepo) Create(_ context.Context, o *obligation.Obligation) error {
	r.add(o)
	return nil
}

func (r *memObligationRepo) GetByID(_ context.Context, id int64) (*obligation.Obligation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("obligation not found")
	}
	cp := *o
	return &cp, nil
}

func (r *memObligationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

func (r *memObligationRepo) ListActiveUnreminded(_ context.Context) ([]*obligation.Obligation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []*obligation.Obligation{}
	for _, o := range r.records {
		if o.Status == obligation.StatusActive && !o.ReminderSent {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memObligationRepo) ListActive(_ context.Context) ([]*obligation.Obligation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []*obligation.Obligation{}
	for _, o := range r.records {
		if o.Status == obligation.StatusActive {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memObligationRepo) ClaimReminder(_ context.Context, id int64, channel string, sentAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.records[id]
	if !ok || o.ReminderSent || o.Status != obligation.StatusActive {
		return false, nil
	}
	o.ReminderSent = true
	o.ReminderChannel = sql.NullString{String: channel, Valid: true}
	o.ReminderSentAt = sql.NullTime{Time: sentAt, Valid: true}
	return true, nil
}

func (r *memObligationRepo) MarkMissed(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.records[id]
	if !ok || o.Status != obligation.StatusActive {
		return false, nil
	}
	o.Status = obligation.StatusMissed
	return true, nil
}

func (r *memObligationRepo) MarkCompleted(_ context.Context, id int64, completedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.records[id]
	if !ok || o.Status != obligation.StatusActive {
		return false, nil
	}
	o.Status = obligation.StatusCompleted
	o.LastCompletedAt = sql.NullTime{Time: completedAt, Valid: true}
	return true, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[int64]*user.User
}

func newMemUserRepo(users ...*user.User) *memUserRepo {
	r := &memUserRepo{users: map[int64]*user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return u, nil
}

func (r *memUserRepo) SavePushSubscription(_ context.Context, id int64, sub *user.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.PushSubscription = sub
	return nil
}

type memContactRepo struct {
	contacts []*contact.Contact
	listErr  error
}

func (r *memContactRepo) Create(_ context.Context, c *contact.Contact) error   { return nil }
func (r *memContactRepo) Update(_ context.Context, c *contact.Contact) error   { return nil }
func (r *memContactRepo) Delete(_ context.Context, id int64) error             { return nil }
func (r *memContactRepo) SetPrimary(_ context.Context, userID, id int64) error { return nil }

func (r *memContactRepo) GetByID(_ context.Context, id int64) (*contact.Contact, error) {
	for _, c := range r.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("contact not found")
}

func (r *memContactRepo) ListByUser(_ context.Context, userID int64) ([]*contact.Contact, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []*contact.Contact{}
	for _, c := range r.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// recordingGateway records every dispatch and answers with a scripted
// outcome: failPush suppresses push delivery for the named recipient only.
type recordingGateway struct {
	mu       sync.Mutex
	events   []notify.Event
	failPush map[string]bool
}

func (g *recordingGateway) Dispatch(_ context.Context, rcpt notify.Recipient, channel notify.Channel, msg notify.Message) notify.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	ev := notify.Event{Recipient: rcpt.Name, Channel: channel, Title: msg.Title, Body: msg.Body, At: time.Now()}
	switch {
	case channel == notify.ChannelPush && g.failPush[rcpt.Name]:
		ev.Outcome = notify.OutcomeFailed
		ev.Reason = "forced failure"
	case channel == notify.ChannelPush && rcpt.PushSubscription == nil:
		ev.Outcome = notify.OutcomeSkipped
		ev.Reason = "no push endpoint registered"
	case channel == notify.ChannelSMS && rcpt.Phone == "":
		ev.Outcome = notify.OutcomeSkipped
		ev.Reason = "no phone number"
	default:
		ev.Outcome = notify.OutcomeSent
	}
	g.events = append(g.events, ev)
	return ev
}

func (g *recordingGateway) count(channel notify.Channel) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, ev := range g.events {
		if ev.Channel == channel {
			n++
		}
	}
	return n
}

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l.WithField("component", "test")
}
