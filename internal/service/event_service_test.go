package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/dto"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enterUsers puts n subscribed users into the event and returns their IDs.
func enterUsers(t *testing.T, env *testEnv, event *entity.Event, names ...string) []uuid.UUID {
	t.Helper()
	ctx := context.Background()
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		user := env.addSubscribedUser(name)
		_, err := env.participationSvc.Entry(ctx, user.ID, event.ID, dto.EntryRequest{EntryType: entity.EntryTypeSolo})
		require.NoError(t, err)
		ids = append(ids, user.ID)
	}
	return ids
}

func TestEventMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the event and seats the tables", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		members := enterUsers(t, env, event, "a", "b", "c")

		created, err := env.eventSvc.Match(ctx, event.ID, dto.MatchEventRequest{
			Tables: []dto.TableAssignment{{MemberIDs: members, RestaurantName: "Trattoria"}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.Equal(t, entity.EventMatched, event.Status)

		matched, err := env.participations.FindByEventAndStatus(ctx, event.ID, entity.ParticipationMatched)
		require.NoError(t, err)
		assert.Len(t, matched, 3)
		assert.Len(t, env.matches.rows, 1)
	})

	t.Run("unknown member rejected before any transition", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		members := enterUsers(t, env, event, "a", "b")

		_, err := env.eventSvc.Match(ctx, event.ID, dto.MatchEventRequest{
			Tables: []dto.TableAssignment{{MemberIDs: append(members, uuid.New())}},
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.Equal(t, entity.EventOpen, event.Status, "a bad table must leave the event untouched")
	})

	t.Run("already matched event refused", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		members := enterUsers(t, env, event, "a", "b")

		_, err := env.eventSvc.Match(ctx, event.ID, dto.MatchEventRequest{
			Tables: []dto.TableAssignment{{MemberIDs: members}},
		})
		require.NoError(t, err)

		_, err = env.eventSvc.Match(ctx, event.ID, dto.MatchEventRequest{
			Tables: []dto.TableAssignment{{MemberIDs: members}},
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidEventState)
	})
}

func TestEventComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("awards every matched member", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		members := enterUsers(t, env, event, "a", "b", "c")
		_, err := env.eventSvc.Match(ctx, event.ID, dto.MatchEventRequest{
			Tables: []dto.TableAssignment{{MemberIDs: members}},
		})
		require.NoError(t, err)

		resp, err := env.eventSvc.Complete(ctx, event.ID)
		require.NoError(t, err)

		assert.Equal(t, 3, resp.Awarded)
		assert.Equal(t, 0, resp.Failed)
		assert.Equal(t, entity.EventClosed, env.events.events[event.ID].Status)

		for _, id := range members {
			sum, err := env.points.SumByUser(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, PointsParticipation, sum)
		}
	})

	t.Run("one failed award does not block the rest", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		members := enterUsers(t, env, event, "a", "b", "c", "d", "e")
		_, err := env.eventSvc.Match(ctx, event.ID, dto.MatchEventRequest{
			Tables: []dto.TableAssignment{
				{MemberIDs: members[:3]},
				{MemberIDs: members[3:]},
			},
		})
		require.NoError(t, err)

		env.points.failFor[members[1]] = errors.New("connection reset")

		resp, err := env.eventSvc.Complete(ctx, event.ID)
		require.NoError(t, err)

		assert.Equal(t, 4, resp.Awarded)
		assert.Equal(t, 1, resp.Failed)
		assert.Equal(t, entity.EventClosed, env.events.events[event.ID].Status)

		sum, err := env.points.SumByUser(ctx, members[1])
		require.NoError(t, err)
		assert.Zero(t, sum)
	})

	t.Run("completing an open event refused", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)

		_, err := env.eventSvc.Complete(ctx, event.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidEventState)
	})

	t.Run("completing twice refused", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		members := enterUsers(t, env, event, "a", "b")
		_, err := env.eventSvc.Match(ctx, event.ID, dto.MatchEventRequest{
			Tables: []dto.TableAssignment{{MemberIDs: members}},
		})
		require.NoError(t, err)

		_, err = env.eventSvc.Complete(ctx, event.ID)
		require.NoError(t, err)

		_, err = env.eventSvc.Complete(ctx, event.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidEventState)
	})
}

func TestEventCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to active participations and notifies them", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		members := enterUsers(t, env, event, "a", "b", "c")

		// One member already bailed on their own; they get neither the cascade
		// nor a notification.
		p, err := env.participations.FindByUserAndEvent(ctx, members[2], event.ID)
		require.NoError(t, err)
		require.NoError(t, env.participationSvc.Cancel(ctx, members[2], p.ID))

		resp, err := env.eventSvc.Cancel(ctx, event.ID)
		require.NoError(t, err)

		assert.Equal(t, entity.EventClosed, resp.Status)
		assert.EqualValues(t, 2, resp.Canceled)
		assert.Equal(t, 2, resp.Notified.Sent)
		assert.Zero(t, resp.Notified.Failed)
		assert.Len(t, env.notifications.rows, 2)

		active, err := env.participations.FindActiveByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("event cancellation writes no penalties", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		enterUsers(t, env, event, "a", "b")

		_, err := env.eventSvc.Cancel(ctx, event.ID)
		require.NoError(t, err)
		assert.Empty(t, env.points.rows)
	})

	t.Run("matched event cannot be canceled", func(t *testing.T) {
		env := newTestEnv()
		event := env.addOpenEvent(72 * time.Hour)
		members := enterUsers(t, env, event, "a", "b")
		_, err := env.eventSvc.Match(ctx, event.ID, dto.MatchEventRequest{
			Tables: []dto.TableAssignment{{MemberIDs: members}},
		})
		require.NoError(t, err)

		_, err = env.eventSvc.Cancel(ctx, event.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidEventState)
	})
}

func TestEventList(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.addOpenEvent(72 * time.Hour)
	second := env.addOpenEvent(96 * time.Hour)
	second.Area = "uptown"
	closed := env.addOpenEvent(120 * time.Hour)
	closed.Status = entity.EventClosed

	all, err := env.eventSvc.List(ctx, dto.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2, "closed events stay out of the listing")

	uptown, err := env.eventSvc.List(ctx, dto.EventFilter{Area: "uptown"})
	require.NoError(t, err)
	require.Len(t, uptown, 1)
	assert.Equal(t, second.ID, uptown[0].ID)
}
