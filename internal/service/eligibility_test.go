package service

import (
	"testing"
	"time"

	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestEligibilityGate(t *testing.T) {
	now := time.Date(2026, time.August, 1, 18, 0, 0, 0, time.UTC)
	gate := EligibilityGate{EntryCutoff: 48 * time.Hour}

	openEvent := func(until time.Duration) *entity.Event {
		return &entity.Event{Status: entity.EventOpen, EventDate: now.Add(until)}
	}
	activeUser := &entity.User{SubscriptionStatus: entity.SubscriptionActive}

	t.Run("active subscription 72h out passes", func(t *testing.T) {
		assert.NoError(t, gate.Check(activeUser, openEvent(72*time.Hour), now))
	})

	t.Run("inside 48h window refused", func(t *testing.T) {
		err := gate.Check(activeUser, openEvent(40*time.Hour), now)
		assert.ErrorIs(t, err, apperror.ErrWindowClosed)
	})

	t.Run("exactly at cutoff refused", func(t *testing.T) {
		err := gate.Check(activeUser, openEvent(48*time.Hour), now)
		assert.ErrorIs(t, err, apperror.ErrWindowClosed)
	})

	t.Run("canceled subscription within paid period passes", func(t *testing.T) {
		periodEnd := now.Add(10 * 24 * time.Hour)
		user := &entity.User{
			SubscriptionStatus:    entity.SubscriptionCanceled,
			SubscriptionPeriodEnd: &periodEnd,
		}
		assert.NoError(t, gate.Check(user, openEvent(72*time.Hour), now))
	})

	t.Run("canceled subscription past period refused", func(t *testing.T) {
		periodEnd := now.Add(-time.Hour)
		user := &entity.User{
			SubscriptionStatus:    entity.SubscriptionCanceled,
			SubscriptionPeriodEnd: &periodEnd,
		}
		err := gate.Check(user, openEvent(72*time.Hour), now)
		assert.ErrorIs(t, err, apperror.ErrSubscriptionRequired)
	})

	t.Run("no subscription refused", func(t *testing.T) {
		user := &entity.User{SubscriptionStatus: entity.SubscriptionNone}
		err := gate.Check(user, openEvent(72*time.Hour), now)
		assert.ErrorIs(t, err, apperror.ErrSubscriptionRequired)
	})

	t.Run("non-open event refused", func(t *testing.T) {
		event := openEvent(72 * time.Hour)
		event.Status = entity.EventMatched
		err := gate.Check(activeUser, event, now)
		assert.ErrorIs(t, err, apperror.ErrEventNotOpen)
	})

	t.Run("missing user unauthorized", func(t *testing.T) {
		err := gate.Check(nil, openEvent(72*time.Hour), now)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}
