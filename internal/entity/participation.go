package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EntryTypeSolo = "solo"
	EntryTypePair = "pair"
)

const (
	ParticipationPending  = "pending"
	ParticipationMatched  = "matched"
	ParticipationCanceled = "canceled"
)

const (
	AttendanceAttending = "attending"
	AttendanceCanceled  = "canceled"
	AttendanceLate      = "late"
)

// GroupSizeCap is the hard limit on non-canceled participations sharing a
// group_id within one event: one inviter plus at most two invitees.
const GroupSizeCap = 3

// Participation is one user's enrollment record for one event. A canceled row
// is reactivated in place on re-entry instead of inserting a duplicate, so the
// pair (user_id, event_id) has at most one non-canceled row. That invariant is
// also enforced by a partial unique index created in the migration step.
type Participation struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	EventID uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Event   Event     `gorm:"foreignKey:EventID" json:"-"`

	GroupID   uuid.UUID `gorm:"type:uuid;index;not null" json:"group_id"`
	EntryType string    `gorm:"size:10;not null;default:'solo'" json:"entry_type"`

	InviteToken string `gorm:"size:32;uniqueIndex;not null" json:"-"`
	ShortCode   string `gorm:"size:6;index;not null" json:"-"`

	Status           string `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	AttendanceStatus string `gorm:"size:20;not null;default:'attending'" json:"attendance_status"`

	Mood        string `gorm:"size:50" json:"mood,omitempty"`
	BudgetLevel int    `gorm:"default:0" json:"budget_level,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Participation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
