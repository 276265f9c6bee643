// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"care_notification_service/internal/domain/notify"
	"care_notification_service/internal/domain/obligation"
	"care_notification_service/internal/domain/user"
	"care_notification_service/internal/schedule"
)

// ReminderService is the periodic scanner that sends each obligation's
// reminder exactly once, shortly before it falls due.
type ReminderService struct {
	obligations     obligation.Repository
	users           user.Repository
	gateway         notify.Gateway
	logger          *logrus.Entry
	lead            time.Duration
	dispatchTimeout time.Duration
	now             func() time.Time
}

func NewReminderService(
	or obligation.Repository,
	ur user.Repository,
	gw notify.Gateway,
	logger *logrus.Entry,
	lead time.Duration,
	dispatchTimeout time.Duration,
) *ReminderService {
	return &ReminderService{
		obligations:     or,
		users:           ur,
		gateway:         gw,
		logger:          logger,
		lead:            lead,
		dispatchTimeout: dispatchTimeout,
		now:             time.Now,
	}
}

// RunReminderCheck performs one scan tick. It returns an error only when the
// candidate read fails, in which case the whole tick is abandoned with no
// side effects and retried at the next timer firing. Per-record problems are
// logged and skipped so one bad record cannot stall the rest.
func (s *ReminderService) RunReminderCheck(ctx context.Context) error {
	candidates, err := s.obligations.ListActiveUnreminded(ctx)
	if err != nil {
		return fmt.Errorf("reminder scan aborted: %w", err)
	}

	now := s.now()
	for _, o := range candidates {
		due, err := schedule.DueWithin(now, o.Date, o.TimeOfDay, s.lead)
		if err != nil {
			s.logger.Warnf("Skipping obligation %d: %v", o.ID, err)
			continue
		}
		if !due {
			continue
		}

		// Load the owner before claiming; a failed lookup must not
		// consume the claim and lose the reminder for this occurrence.
		owner, err := s.users.GetByID(ctx, o.UserID)
		if err != nil {
			s.logger.Errorf("Failed to load owner %d of obligation %d: %v", o.UserID, o.ID, err)
			continue
		}

		// Claim before sending: only the tick that wins the conditional
		// update dispatches, so overlapping ticks cannot double-send.
		claimed, err := s.obligations.ClaimReminder(ctx, o.ID, string(notify.ChannelPush), now)
		if err != nil {
			s.logger.Errorf("Failed to claim reminder for obligation %d: %v", o.ID, err)
			continue
		}
		if !claimed {
			s.logger.Debugf("Reminder for obligation %d already claimed by another tick.", o.ID)
			continue
		}

		dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
		ev := s.gateway.Dispatch(dctx, recipientFor(owner), notify.ChannelPush, reminderMessage(o))
		cancel()

		if ev.Outcome == notify.OutcomeSent {
			s.logger.Infof("Reminder sent for obligation %d (%s) to user %d.", o.ID, o.Kind, o.UserID)
		} else {
			s.logger.Warnf("Reminder for obligation %d not delivered: %s (%s).", o.ID, ev.Outcome, ev.Reason)
		}
	}
	return nil
}

func reminderMessage(o *obligation.Obligation) notify.Message {
	switch o.Kind {
	case obligation.KindMedicine:
		body := fmt.Sprintf("Time to take %s", o.Title)
		if o.Detail.Valid && o.Detail.String != "" {
			body = fmt.Sprintf("Time to take %s (%s)", o.Title, o.Detail.String)
		}
		return notify.Message{Title: "Medicine Reminder", Body: body}
	default:
		return notify.Message{Title: "Task Reminder", Body: fmt.Sprintf("Task: %s is due soon", o.Title)}
	}
}

func recipientFor(u *user.User) notify.Recipient {
	r := notify.Recipient{Name: u.Name, PushSubscription: u.PushSubscription}
	if u.Phone.Valid {
		r.Phone = u.Phone.String
	}
	return r
}
