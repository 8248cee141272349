package models

import "time"

type AvailabilityRule struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	CounsellorID uint `gorm:"index;not null" json:"counsellor_id"`

	DayOfWeek int `json:"day_of_week"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
