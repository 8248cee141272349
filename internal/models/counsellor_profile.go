package models

import "time"

// CounsellorProfile holds the booking settings of a counsellor account.
// Availability rules are interpreted in Timezone.
type CounsellorProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Timezone    string `gorm:"size:64;not null" json:"timezone"`
	SlotMinutes int    `gorm:"default:60" json:"slot_minutes"`
	Bio         string `gorm:"type:text" json:"bio"`
	Specialties string `gorm:"size:255" json:"specialties"`
	Active      bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
