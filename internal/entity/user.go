package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionNone     = "none"
)

// Member stages, ascending. Derived from the stage point ledger; never hand-edited.
const (
	StageBronze   = "bronze"
	StageSilver   = "silver"
	StageGold     = "gold"
	StagePlatinum = "platinum"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Role     string    `gorm:"size:20;not null;default:'member'" json:"role"`

	// Materialized sum of StagePointLog rows. Written only by the stage service.
	StagePoints int    `gorm:"default:0" json:"stage_points"`
	MemberStage string `gorm:"size:20;not null;default:'bronze'" json:"member_stage"`

	// Synced out-of-band by the billing webhook collaborator.
	SubscriptionStatus    string     `gorm:"size:20;not null;default:'none'" json:"subscription_status"`
	SubscriptionPeriodEnd *time.Time `json:"subscription_period_end,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasValidSubscription reports whether the user may act on events: an active
// subscription, or a canceled one whose paid period has not yet ended.
func (u *User) HasValidSubscription(now time.Time) bool {
	if u.SubscriptionStatus == SubscriptionActive {
		return true
	}
	if u.SubscriptionStatus == SubscriptionCanceled &&
		u.SubscriptionPeriodEnd != nil && u.SubscriptionPeriodEnd.After(now) {
		return true
	}
	return false
}
