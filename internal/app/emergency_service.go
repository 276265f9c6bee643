// internal/app/emergency_service.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"care_notification_service/internal/domain/contact"
	"care_notification_service/internal/domain/notify"
	"care_notification_service/internal/domain/user"
)

// LocationUnavailable is embedded in the alert when the caller supplied none.
const LocationUnavailable = "Location not available"

// SOSSummary reports what an SOS broadcast attempted. Failed or skipped
// dispatches never fail the operation as a whole.
type SOSSummary struct {
	AlertID          string
	ContactsNotified int
	Attempted        int
	Sent             int
	Failed           int
	Skipped          int
}

// EmergencyService fans one alert out to every contact of the triggering
// user, across push and SMS, with per-(contact, channel) failure isolation.
type EmergencyService struct {
	users           user.Repository
	contacts        contact.Repository
	gateway         notify.Gateway
	logger          *logrus.Entry
	workers         int
	dispatchTimeout time.Duration
}

func NewEmergencyService(
	ur user.Repository,
	cr contact.Repository,
	gw notify.Gateway,
	logger *logrus.Entry,
	workers int,
	dispatchTimeout time.Duration,
) *EmergencyService {
	if workers <= 0 {
		workers = 1
	}
	return &EmergencyService{
		users:           ur,
		contacts:        cr,
		gateway:         gw,
		logger:          logger,
		workers:         workers,
		dispatchTimeout: dispatchTimeout,
	}
}

type sosAttempt struct {
	rcpt    notify.Recipient
	channel notify.Channel
	msg     notify.Message
}

// RaiseSOS loads the user's contacts and issues every dispatch attempt:
// push for each contact, SMS additionally for contacts with a phone number.
// It errors only when the user or contact reads fail; zero contacts is a
// valid outcome.
func (s *EmergencyService) RaiseSOS(ctx context.Context, userID int64, location string) (*SOSSummary, error) {
	triggering, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load triggering user %d: %w", userID, err)
	}
	contacts, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts of user %d: %w", userID, err)
	}

	if location == "" {
		location = LocationUnavailable
	}

	summary := &SOSSummary{
		AlertID:          uuid.NewString(),
		ContactsNotified: len(contacts),
	}
	s.logger.WithFields(logrus.Fields{
		"alert_id": summary.AlertID,
		"user_id":  userID,
		"contacts": len(contacts),
	}).Info("SOS raised.")

	if len(contacts) == 0 {
		return summary, nil
	}

	pushMsg := notify.Message{
		Title: "EMERGENCY ALERT",
		Body:  fmt.Sprintf("%s needs immediate assistance! Location: %s", triggering.Name, location),
	}
	smsMsg := notify.Message{
		Title: "EMERGENCY ALERT",
		Body:  fmt.Sprintf("EMERGENCY: %s needs immediate assistance! Location: %s", triggering.Name, location),
	}

	var attempts []sosAttempt
	for _, c := range contacts {
		rcpt := s.contactRecipient(ctx, c)
		attempts = append(attempts, sosAttempt{rcpt: rcpt, channel: notify.ChannelPush, msg: pushMsg})
		if rcpt.Phone != "" {
			attempts = append(attempts, sosAttempt{rcpt: rcpt, channel: notify.ChannelSMS, msg: smsMsg})
		}
	}
	summary.Attempted = len(attempts)

	// Bounded-parallel fan-out. Each dispatch gets its own timeout so a hung
	// transport cannot starve the remaining attempts.
	jobs := make(chan sosAttempt)
	var wg sync.WaitGroup
	var mu sync.Mutex
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
				ev := s.gateway.Dispatch(dctx, a.rcpt, a.channel, a.msg)
				cancel()

				mu.Lock()
				switch ev.Outcome {
				case notify.OutcomeSent:
					summary.Sent++
				case notify.OutcomeFailed:
					summary.Failed++
				default:
					summary.Skipped++
				}
				mu.Unlock()
			}
		}()
	}
	for _, a := range attempts {
		jobs <- a
	}
	close(jobs)
	wg.Wait()

	s.logger.WithFields(logrus.Fields{
		"alert_id":  summary.AlertID,
		"attempted": summary.Attempted,
		"sent":      summary.Sent,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	}).Info("SOS fan-out complete.")
	return summary, nil
}

// contactRecipient resolves a contact's addressing. When the contact is
// linked to an account, that account's push subscription is used; a failed
// lookup only costs the push attempt, never the SMS one.
func (s *EmergencyService) contactRecipient(ctx context.Context, c *contact.Contact) notify.Recipient {
	rcpt := notify.Recipient{Name: c.Name}
	if c.Phone.Valid {
		rcpt.Phone = c.Phone.String
	}
	if c.LinkedUserID.Valid {
		linked, err := s.users.GetByID(ctx, c.LinkedUserID.Int64)
		if err != nil {
			s.logger.Warnf("Failed to resolve linked account %d for contact %d: %v", c.LinkedUserID.Int64, c.ID, err)
		} else {
			rcpt.PushSubscription = linked.PushSubscription
		}
	}
	return rcpt
}
