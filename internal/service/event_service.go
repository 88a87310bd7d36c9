package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/moyora/dinner-api/internal/dto"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/internal/repository"
	"github.com/moyora/dinner-api/pkg/apperror"
)

type EventService interface {
	Create(ctx context.Context, req dto.CreateEventRequest) (*dto.EventResponse, error)
	List(ctx context.Context, filter dto.EventFilter) ([]dto.EventResponse, error)
	// Match seats pending participations into tables: open → matched.
	Match(ctx context.Context, eventID uuid.UUID, req dto.MatchEventRequest) (int, error)
	// Complete closes a matched event and awards participation points. Per-user
	// award failures are isolated and counted, never propagated.
	Complete(ctx context.Context, eventID uuid.UUID) (*dto.CompleteEventResponse, error)
	// Cancel closes an open event, cancels every active participation and
	// notifies affected members best-effort.
	Cancel(ctx context.Context, eventID uuid.UUID) (*dto.CancelEventResponse, error)
}

type eventService struct {
	events         repository.EventRepository
	participations repository.ParticipationRepository
	matches        repository.MatchRepository
	stage          StageService
	notifications  NotificationService
	search         EventSearchService
}

func NewEventService(
	events repository.EventRepository,
	participations repository.ParticipationRepository,
	matches repository.MatchRepository,
	stage StageService,
	notifications NotificationService,
	search EventSearchService,
) EventService {
	return &eventService{
		events:         events,
		participations: participations,
		matches:        matches,
		stage:          stage,
		notifications:  notifications,
		search:         search,
	}
}

func toEventResponse(e *entity.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:        e.ID,
		Title:     e.Title,
		Area:      e.Area,
		EventDate: e.EventDate,
		Status:    e.Status,
	}
}

func (s *eventService) Create(ctx context.Context, req dto.CreateEventRequest) (*dto.EventResponse, error) {
	event := &entity.Event{
		Title:     req.Title,
		Area:      req.Area,
		EventDate: req.EventDate,
		Status:    entity.EventOpen,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.reindex(event)

	resp := toEventResponse(event)
	return &resp, nil
}

// reindex pushes the event's current state into the search index. Best-effort.
func (s *eventService) reindex(event *entity.Event) {
	if s.search == nil {
		return
	}
	go func() {
		if event.Status == entity.EventOpen {
			if err := s.search.IndexEvent(event); err != nil {
				log.Printf("failed to index event %s: %v", event.ID, err)
			}
			return
		}
		if err := s.search.DeleteEvent(event.ID.String()); err != nil {
			log.Printf("failed to remove event %s from index: %v", event.ID, err)
		}
	}()
}

func (s *eventService) List(ctx context.Context, filter dto.EventFilter) ([]dto.EventResponse, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	var events []entity.Event
	var err error

	if filter.Search != "" && s.search != nil {
		ids, searchErr := s.search.SearchOpenEvents(filter.Search, filter.Area, limit)
		if searchErr == nil {
			events, err = s.events.FindByIDs(ctx, ids)
		} else {
			// Search being down should not hide open events.
			log.Printf("event search failed, falling back to database: %v", searchErr)
			events, err = s.events.FindOpen(ctx, filter.Area, limit, offset)
		}
	} else {
		events, err = s.events.FindOpen(ctx, filter.Area, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, toEventResponse(&events[i]))
	}
	return result, nil
}

func (s *eventService) Match(ctx context.Context, eventID uuid.UUID, req dto.MatchEventRequest) (int, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return 0, notFoundOr(err)
	}

	active, err := s.participations.FindActiveByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	activeByUser := make(map[uuid.UUID]bool, len(active))
	for _, p := range active {
		activeByUser[p.UserID] = true
	}
	for _, table := range req.Tables {
		for _, memberID := range table.MemberIDs {
			if !activeByUser[memberID] {
				return 0, fmt.Errorf("%w: user %s has no active participation in this event", apperror.ErrInvalidInput, memberID)
			}
		}
	}

	moved, err := s.events.TransitionStatus(ctx, eventID, entity.EventOpen, entity.EventMatched)
	if err != nil {
		return 0, err
	}
	if !moved {
		return 0, apperror.ErrInvalidEventState
	}

	created := 0
	for _, table := range req.Tables {
		match := &entity.Match{
			EventID:         eventID,
			TableMembers:    table.MemberIDs,
			RestaurantName:  table.RestaurantName,
			ReservationTime: table.ReservationTime,
		}
		if err := s.matches.Create(ctx, match); err != nil {
			return created, err
		}
		if err := s.participations.MarkMatched(ctx, eventID, table.MemberIDs); err != nil {
			return created, err
		}
		created++
	}

	event.Status = entity.EventMatched
	s.reindex(event)

	return created, nil
}

func (s *eventService) Complete(ctx context.Context, eventID uuid.UUID) (*dto.CompleteEventResponse, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, notFoundOr(err)
	}

	moved, err := s.events.TransitionStatus(ctx, eventID, entity.EventMatched, entity.EventClosed)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperror.ErrInvalidEventState
	}

	matched, err := s.participations.FindByEventAndStatus(ctx, eventID, entity.ParticipationMatched)
	if err != nil {
		return nil, err
	}

	resp := &dto.CompleteEventResponse{
		EventID: eventID,
		Status:  entity.EventClosed,
	}
	for _, p := range matched {
		if err := s.stage.Award(ctx, p.UserID, entity.ReasonParticipation, p.ID, PointsParticipation); err != nil {
			// One member's failed award must not block the rest.
			log.Printf("failed to award participation points to user %s (participation %s): %v", p.UserID, p.ID, err)
			resp.Failed++
			continue
		}
		resp.Awarded++
	}

	return resp, nil
}

func (s *eventService) Cancel(ctx context.Context, eventID uuid.UUID) (*dto.CancelEventResponse, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	// Snapshot who is affected before the cascade flips them.
	active, err := s.participations.FindActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	moved, err := s.events.TransitionStatus(ctx, eventID, entity.EventOpen, entity.EventClosed)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperror.ErrInvalidEventState
	}

	canceled, err := s.participations.CancelAllActive(ctx, eventID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(active))
	for _, p := range active {
		userIDs = append(userIDs, p.UserID)
	}
	event.Status = entity.EventClosed
	notified := s.notifications.NotifyEventCanceled(ctx, userIDs, event)

	s.reindex(event)

	return &dto.CancelEventResponse{
		EventID:  eventID,
		Status:   entity.EventClosed,
		Canceled: canceled,
		Notified: notified,
	}, nil
}
