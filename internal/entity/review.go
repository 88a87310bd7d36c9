package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is one member's feedback on a tablemate after an event. A reviewer may
// review a given target at most once per match. Rating 0 is only valid together
// with IsNoShow.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;index:idx_reviewer_target_match,unique,priority:1" json:"reviewer_id"`
	TargetID   uuid.UUID `gorm:"type:uuid;not null;index:idx_reviewer_target_match,unique,priority:2" json:"target_id"`
	MatchID    uuid.UUID `gorm:"type:uuid;not null;index:idx_reviewer_target_match,unique,priority:3" json:"match_id"`

	Rating   int    `gorm:"not null" json:"rating"`
	IsNoShow bool   `gorm:"default:false" json:"is_no_show"`
	// BlockFlag marks unwillingness to be seated with the target again. Forced
	// on for ratings 1-3; independent of the point value awarded.
	BlockFlag bool   `gorm:"default:false" json:"block_flag"`
	Memo      string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
