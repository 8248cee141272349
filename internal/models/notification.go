package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uint      `gorm:"index;not null" json:"user_id"`

	Kind  string `gorm:"size:50;not null" json:"kind"`
	Title string `gorm:"size:150" json:"title"`
	Body  string `gorm:"type:text" json:"body"`

	BookingID *uint      `json:"booking_id,omitempty"`
	ReadAt    *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
