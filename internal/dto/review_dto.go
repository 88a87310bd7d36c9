package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	MatchID  uuid.UUID `json:"match_id" binding:"required"`
	TargetID uuid.UUID `json:"target_id" binding:"required"`
	// Pointer so a zero rating (no-show) survives required-field validation.
	Rating    *int   `json:"rating" binding:"required,min=0,max=5"`
	Memo      string `json:"memo" binding:"max=500"`
	BlockFlag bool   `json:"block_flag"`
	IsNoShow  bool   `json:"is_no_show"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	MatchID   uuid.UUID `json:"match_id"`
	Rating    int       `json:"rating"`
	IsNoShow  bool      `json:"is_no_show"`
	BlockFlag bool      `json:"block_flag"`
	CreatedAt time.Time `json:"created_at"`
}
