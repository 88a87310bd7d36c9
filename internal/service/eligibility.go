package service

import (
	"time"

	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/pkg/apperror"
)

// EligibilityGate decides whether a user may act on an event. Pure check, no
// side effects; both Entry and AcceptInvite run it.
type EligibilityGate struct {
	// Entries are refused when the event is closer than this.
	EntryCutoff time.Duration
}

func (g EligibilityGate) Check(user *entity.User, event *entity.Event, now time.Time) error {
	if user == nil {
		return apperror.ErrUnauthorized
	}
	if !user.HasValidSubscription(now) {
		return apperror.ErrSubscriptionRequired
	}
	if event.Status != entity.EventOpen {
		return apperror.ErrEventNotOpen
	}
	if event.EventDate.Sub(now) <= g.EntryCutoff {
		return apperror.ErrWindowClosed
	}
	return nil
}
