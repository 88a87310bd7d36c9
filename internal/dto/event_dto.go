package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title     string    `json:"title" binding:"required,max=100"`
	Area      string    `json:"area" binding:"required,max=50"`
	EventDate time.Time `json:"event_date" binding:"required"`
}

type EventFilter struct {
	Area   string `form:"area"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// TableAssignment is one table produced by the external matching step.
type TableAssignment struct {
	MemberIDs       []uuid.UUID `json:"member_ids" binding:"required,min=2"`
	RestaurantName  string      `json:"restaurant_name" binding:"max=100"`
	ReservationTime *time.Time  `json:"reservation_time"`
}

type MatchEventRequest struct {
	Tables []TableAssignment `json:"tables" binding:"required,min=1,dive"`
}

type CompleteEventResponse struct {
	EventID uuid.UUID `json:"event_id"`
	Status  string    `json:"status"`
	Awarded int       `json:"awarded"`
	Failed  int       `json:"failed"`
}

type NotifyResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type CancelEventResponse struct {
	EventID  uuid.UUID    `json:"event_id"`
	Status   string       `json:"status"`
	Canceled int64        `json:"canceled"`
	Notified NotifyResult `json:"notified"`
}

type EventResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Area      string    `json:"area"`
	EventDate time.Time `json:"event_date"`
	Status    string    `json:"status"`
}
