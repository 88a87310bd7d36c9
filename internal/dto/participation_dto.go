package dto

import (
	"time"

	"github.com/google/uuid"
)

type EntryRequest struct {
	EntryType   string `json:"entry_type" binding:"required,oneof=solo pair"`
	Mood        string `json:"mood" binding:"max=50"`
	BudgetLevel int    `json:"budget_level" binding:"min=0,max=3"`
}

type AcceptInviteRequest struct {
	Mood        string `json:"mood" binding:"max=50"`
	BudgetLevel int    `json:"budget_level" binding:"min=0,max=3"`
}

type UpdateAttendanceRequest struct {
	Status string `json:"status" binding:"required,oneof=attending late canceled"`
}

// EntryResponse is returned for both Entry and AcceptInvite. Invite credentials
// are only populated for pair entries.
type EntryResponse struct {
	ParticipationID uuid.UUID `json:"participation_id"`
	EventID         uuid.UUID `json:"event_id"`
	GroupID         uuid.UUID `json:"group_id"`
	Status          string    `json:"status"`
	EntryType       string    `json:"entry_type"`
	InviteToken     string    `json:"invite_token,omitempty"`
	ShortCode       string    `json:"short_code,omitempty"`
}

type InvitePreviewResponse struct {
	EventID         uuid.UUID `json:"event_id"`
	EventTitle      string    `json:"event_title"`
	Area            string    `json:"area"`
	EventDate       time.Time `json:"event_date"`
	InviterUsername string    `json:"inviter_username"`
	SeatsLeft       int       `json:"seats_left"`
}

type ParticipationResponse struct {
	ID               uuid.UUID `json:"id"`
	EventID          uuid.UUID `json:"event_id"`
	GroupID          uuid.UUID `json:"group_id"`
	EntryType        string    `json:"entry_type"`
	Status           string    `json:"status"`
	AttendanceStatus string    `json:"attendance_status"`
	CreatedAt        time.Time `json:"created_at"`
}
