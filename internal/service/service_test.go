package service

import (
	"time"

	"github.com/moyora/dinner-api/internal/config"
	"github.com/moyora/dinner-api/internal/entity"
)

var testThresholds = config.StageThresholds{
	Silver:   100,
	Gold:     300,
	Platinum: 1000,
}

// testEnv wires every service over in-memory fakes with a controllable clock.
type testEnv struct {
	clock time.Time

	users          *fakeUserRepo
	events         *fakeEventRepo
	participations *fakeParticipationRepo
	points         *fakeStagePointRepo
	reviews        *fakeReviewRepo
	matches        *fakeMatchRepo
	notifications  *fakeNotificationRepo

	stage            StageService
	notificationSvc  NotificationService
	participationSvc *participationService
	eventSvc         EventService
	reviewSvc        *reviewService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		clock:          time.Date(2026, time.August, 1, 18, 0, 0, 0, time.UTC),
		users:          newFakeUserRepo(),
		events:         newFakeEventRepo(),
		participations: newFakeParticipationRepo(),
		points:         newFakeStagePointRepo(),
		reviews:        newFakeReviewRepo(),
		matches:        newFakeMatchRepo(),
		notifications:  newFakeNotificationRepo(),
	}

	env.notificationSvc = NewNotificationService(env.notifications, nil)
	// Notifications disabled for stage so async goroutines don't race tests.
	env.stage = NewStageService(env.points, env.users, testThresholds, nil)

	gate := EligibilityGate{EntryCutoff: 48 * time.Hour}
	env.participationSvc = NewParticipationService(
		env.participations, env.events, env.users, env.stage, gate,
		nil, 24*time.Hour, 5*time.Second,
	).(*participationService)
	env.participationSvc.now = func() time.Time { return env.clock }

	env.eventSvc = NewEventService(env.events, env.participations, env.matches, env.stage, env.notificationSvc, nil)

	env.reviewSvc = NewReviewService(env.reviews, env.matches, env.events, env.stage, 2*time.Hour).(*reviewService)
	env.reviewSvc.now = func() time.Time { return env.clock }

	return env
}

func (env *testEnv) addSubscribedUser(username string) *entity.User {
	return env.users.add(&entity.User{
		Username:           username,
		Email:              username + "@example.com",
		SubscriptionStatus: entity.SubscriptionActive,
	})
}

// addOpenEvent creates an open event the given distance in the future.
func (env *testEnv) addOpenEvent(until time.Duration) *entity.Event {
	return env.events.add(&entity.Event{
		Title:     "Dinner",
		Area:      "downtown",
		EventDate: env.clock.Add(until),
		Status:    entity.EventOpen,
	})
}

