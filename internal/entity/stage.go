package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ledger reasons. One row per (reason, reference_id): the same participation or
// review is never double-awarded.
const (
	ReasonParticipation  = "participation"
	ReasonReviewSent     = "review_sent"
	ReasonReviewReceived = "review_received"
	ReasonCancel         = "cancel"
	ReasonLateCancel     = "late_cancel"
	ReasonNoShow         = "no_show"
)

// StagePointLog is the append-only reputation ledger. Rows are never mutated or
// deleted (outside account-deletion cascade); User.StagePoints is the running
// sum and must always be reconcilable from this table.
type StagePointLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Points      int       `gorm:"not null" json:"points"`
	Reason      string    `gorm:"size:30;not null;index:idx_reason_reference,unique,priority:1" json:"reason"`
	ReferenceID uuid.UUID `gorm:"type:uuid;not null;index:idx_reason_reference,unique,priority:2" json:"reference_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
