// internal/infra/dispatch/gateway.go
package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"care_notification_service/internal/domain/notify"
	"care_notification_service/internal/domain/user"
)

// PushSender delivers one payload to a push subscription.
type PushSender interface {
	Send(ctx context.Context, sub *user.PushSubscription, payload []byte) error
}

// SMSSender delivers one text message to a phone number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// Gateway routes every notification through the configured transports.
// Transport failures never surface as errors: they are encoded into the
// returned Event so one recipient's failure cannot block the others.
type Gateway struct {
	push    PushSender
	sms     SMSSender // nil when Twilio is not configured
	limiter *rate.Limiter
	log     *logrus.Entry

	smsWarnOnce sync.Once // log the unconfigured-SMS condition once, not per call
}

func NewGateway(push PushSender, sms SMSSender, ratePerSec int, log *logrus.Entry) *Gateway {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &Gateway{
		push:    push,
		sms:     sms,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		log:     log,
	}
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Dispatch attempts delivery on one channel and reports the outcome.
func (g *Gateway) Dispatch(ctx context.Context, rcpt notify.Recipient, channel notify.Channel, msg notify.Message) notify.Event {
	ev := notify.Event{
		ID:        uuid.NewString(),
		Recipient: rcpt.Name,
		Channel:   channel,
		Title:     msg.Title,
		Body:      msg.Body,
		At:        time.Now(),
	}

	switch channel {
	case notify.ChannelPush:
		g.dispatchPush(ctx, rcpt, msg, &ev)
	case notify.ChannelSMS:
		g.dispatchSMS(ctx, rcpt, msg, &ev)
	default:
		ev.Outcome = notify.OutcomeFailed
		ev.Reason = "unknown channel"
	}

	g.logEvent(&ev)
	return ev
}

func (g *Gateway) dispatchPush(ctx context.Context, rcpt notify.Recipient, msg notify.Message, ev *notify.Event) {
	if rcpt.PushSubscription == nil {
		ev.Outcome = notify.OutcomeSkipped
		ev.Reason = "no push endpoint registered"
		return
	}

	if err := g.limiter.Wait(ctx); err != nil {
		ev.Outcome = notify.OutcomeFailed
		ev.Reason = err.Error()
		return
	}

	payload, err := json.Marshal(pushPayload{Title: msg.Title, Body: msg.Body})
	if err != nil {
		ev.Outcome = notify.OutcomeFailed
		ev.Reason = err.Error()
		return
	}

	if err := g.push.Send(ctx, rcpt.PushSubscription, payload); err != nil {
		ev.Outcome = notify.OutcomeFailed
		ev.Reason = err.Error()
		return
	}
	ev.Outcome = notify.OutcomeSent
}

func (g *Gateway) dispatchSMS(ctx context.Context, rcpt notify.Recipient, msg notify.Message, ev *notify.Event) {
	if g.sms == nil {
		g.smsWarnOnce.Do(func() {
			g.log.Warn("SMS transport not configured; all SMS dispatches will be skipped")
		})
		ev.Outcome = notify.OutcomeSkipped
		ev.Reason = "sms transport not configured"
		return
	}
	if rcpt.Phone == "" {
		ev.Outcome = notify.OutcomeSkipped
		ev.Reason = "no phone number"
		return
	}

	if err := g.limiter.Wait(ctx); err != nil {
		ev.Outcome = notify.OutcomeFailed
		ev.Reason = err.Error()
		return
	}

	if err := g.sms.Send(ctx, rcpt.Phone, msg.Body); err != nil {
		ev.Outcome = notify.OutcomeFailed
		ev.Reason = err.Error()
		return
	}
	ev.Outcome = notify.OutcomeSent
}

func (g *Gateway) logEvent(ev *notify.Event) {
	entry := g.log.WithFields(logrus.Fields{
		"event_id":  ev.ID,
		"recipient": ev.Recipient,
		"channel":   ev.Channel,
		"outcome":   ev.Outcome,
	})
	switch ev.Outcome {
	case notify.OutcomeFailed:
		entry.Warnf("Notification dispatch failed: %s", ev.Reason)
	case notify.OutcomeSkipped:
		entry.Debugf("Notification dispatch skipped: %s", ev.Reason)
	default:
		entry.Debug("Notification dispatched.")
	}
}
