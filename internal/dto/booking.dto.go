package dto

import (
	"time"

	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

type BookingDTO struct {
	ID                uint       `json:"id"`
	StudentID         uint       `json:"student_id"`
	CounsellorID      uint       `json:"counsellor_id"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           time.Time  `json:"end_time"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	CancelReason      string     `json:"cancel_reason,omitempty"`
	RescheduledFromID *uint      `json:"rescheduled_from_id,omitempty"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	RescheduledAt     *time.Time `json:"rescheduled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// BookingFrom renders timestamps in loc so clients see the counsellor's
// offset. A nil loc keeps the stored zone.
func BookingFrom(b *models.Booking, loc *time.Location) BookingDTO {
	in := func(t time.Time) time.Time {
		if loc == nil {
			return t
		}
		return t.In(loc)
	}
	inPtr := func(t *time.Time) *time.Time {
		if t == nil {
			return nil
		}
		v := in(*t)
		return &v
	}

	return BookingDTO{
		ID:                b.ID,
		StudentID:         b.StudentID,
		CounsellorID:      b.CounsellorID,
		StartTime:         in(b.StartTime),
		EndTime:           in(b.EndTime),
		Status:            b.Status,
		Notes:             b.Notes,
		CancelReason:      b.CancelReason,
		RescheduledFromID: b.RescheduledFromID,
		ConfirmedAt:       inPtr(b.ConfirmedAt),
		CancelledAt:       inPtr(b.CancelledAt),
		CompletedAt:       inPtr(b.CompletedAt),
		RescheduledAt:     inPtr(b.RescheduledAt),
		CreatedAt:         b.CreatedAt,
	}
}

func BookingsFrom(list []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(list))
	for i := range list {
		out = append(out, BookingFrom(&list[i], nil))
	}
	return out
}

type UserDTO struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Phone string      `json:"phone,omitempty"`
	Role  models.Role `json:"role"`
}

func UserFrom(u *models.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  u.Role,
	}
}
