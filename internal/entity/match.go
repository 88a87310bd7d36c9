package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Match is the realized seating of participations at one table for an event.
// TableMembers is the authoritative set of user ids for review validation.
type Match struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID uuid.UUID `gorm:"type:uuid;index;not null" json:"event_id"`
	Event   Event     `gorm:"foreignKey:EventID" json:"-"`

	TableMembers []uuid.UUID `gorm:"serializer:json;type:jsonb" json:"table_members"`

	RestaurantName  string     `gorm:"size:100" json:"restaurant_name,omitempty"`
	ReservationTime *time.Time `json:"reservation_time,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// HasMember reports whether userID was seated at this table.
func (m *Match) HasMember(userID uuid.UUID) bool {
	for _, id := range m.TableMembers {
		if id == userID {
			return true
		}
	}
	return false
}
