// internal/app/missed_service.go
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

// MissedService is the coarser-grained scanner that promotes obligations
// left uncompleted past their grace window into the terminal MISSED state
// and alerts the owner.
type MissedService struct {
	obligations     obligation.Repository
	users           user.Repository
	gateway         notify.Gateway
	logger          *logrus.Entry
	grace           time.Duration
	dispatchTimeout time.Duration
	now             func() time.Time
}

func NewMissedService(
	or obligation.Repository,
	ur user.Repository,
	gw notify.Gateway,
	logger *logrus.Entry,
	grace time.Duration,
	dispatchTimeout time.Duration,
) *MissedService {
	return &MissedService{
		obligations:     or,
		users:           ur,
		gateway:         gw,
		logger:          logger,
		grace:           grace,
		dispatchTimeout: dispatchTimeout,
		now:             time.Now,
	}
}

// RunMissedCheck performs one overdue scan. The state write comes first: if
// it fails or loses to another actor, no notification goes out. If the write
// succeeds but the dispatch fails, the MISSED state stands and the failure
// is only logged; the next scan will not re-detect the record, so the alert
// is not resent. That is an accepted best-effort limitation.
func (s *MissedService) RunMissedCheck(ctx context.Context) error {
	active, err := s.obligations.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("missed scan aborted: %w", err)
	}

	now := s.now()
	for _, o := range active {
		due, err := schedule.DueInstant(now, o.Date, o.TimeOfDay)
		if err != nil {
			s.logger.Warnf("Skipping obligation %d: %v", o.ID, err)
			continue
		}
		if now.Sub(due) < s.grace {
			continue
		}

		ok, err := s.obligations.MarkMissed(ctx, o.ID)
		if err != nil {
			s.logger.Errorf("Failed to mark obligation %d missed: %v", o.ID, err)
			continue
		}
		if !ok {
			// Completed or already missed in the meantime.
			continue
		}
		s.logger.Infof("Obligation %d (%s) marked missed.", o.ID, o.Kind)

		owner, err := s.users.GetByID(ctx, o.UserID)
		if err != nil {
			s.logger.Errorf("Failed to load owner %d of obligation %d: %v", o.UserID, o.ID, err)
			continue
		}

		dctx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
		ev := s.gateway.Dispatch(dctx, recipientFor(owner), notify.ChannelPush, missedMessage(o))
		cancel()

		if ev.Outcome != notify.OutcomeSent {
			s.logger.Warnf("Missed alert for obligation %d not delivered: %s (%s).", o.ID, ev.Outcome, ev.Reason)
		}
	}
	return nil
}

func missedMessage(o *obligation.Obligation) notify.Message {
	switch o.Kind {
	case obligation.KindMedicine:
		return notify.Message{
			Title: "Missed Medicine Alert",
			Body:  fmt.Sprintf("You missed your dose of %s", o.Title),
		}
	default:
		return notify.Message{
			Title: "Overdue Task Alert",
			Body:  fmt.Sprintf("Task: %s is overdue", o.Title),
		}
	}
}
