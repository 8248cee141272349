package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StudentID uint `gorm:"index;not null" json:"student_id"`
	Student   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	CounsellorID uint `gorm:"index:idx_bookings_counsellor_start;not null" json:"counsellor_id"`
	Counsellor   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	StartTime time.Time `gorm:"index:idx_bookings_counsellor_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`

	Notes        string `gorm:"size:500" json:"notes"`
	CancelReason string `gorm:"size:255" json:"cancel_reason,omitempty"`

	RescheduledFromID *uint `json:"rescheduled_from_id,omitempty"`

	ConfirmedAt   *time.Time `json:"confirmed_at"`
	CancelledAt   *time.Time `json:"cancelled_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	RescheduledAt *time.Time `json:"rescheduled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
