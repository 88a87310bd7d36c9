package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event status is monotonic: open → matched → closed. Cancellation drives
// open → closed directly. An event is never reopened.
const (
	EventOpen    = "open"
	EventMatched = "matched"
	EventClosed  = "closed"
)

type Event struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Area      string    `gorm:"size:50;index;not null" json:"area"`
	EventDate time.Time `gorm:"index;not null" json:"event_date"`
	Status    string    `gorm:"size:20;index;not null;default:'open'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
