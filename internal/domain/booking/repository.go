package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

// DateRange selects bookings overlapping [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

type ListFilter struct {
	StudentID    *uint
	CounsellorID *uint
	Statuses     []Status
	Range        *DateRange
	Limit        int
	Offset       int
}

// BookingStore is the persistence port for bookings. Implementations must
// guarantee that two active bookings of one counsellor never overlap, even
// under concurrent writers.
type BookingStore interface {
	// FindActiveBookings returns pending and confirmed bookings of the
	// counsellor, optionally limited to those overlapping within.
	FindActiveBookings(
		ctx context.Context,
		counsellorID uint,
		within *DateRange,
	) ([]models.Booking, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	// UpdateBooking stores the status fields of b only while the stored
	// status still equals from. A concurrent change makes it fail with
	// ErrInvalidTransition.
	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
		from Status,
	) error

	// RescheduleBooking persists the retired booking and its replacement
	// atomically.
	RescheduleBooking(
		ctx context.Context,
		old *models.Booking,
		replacement *models.Booking,
	) error

	ListBookings(
		ctx context.Context,
		f ListFilter,
	) ([]models.Booking, int64, error)
}

// ProfileStore is the persistence port for counsellor settings.
type ProfileStore interface {
	GetCounsellorProfile(
		ctx context.Context,
		counsellorID uint,
	) (*models.CounsellorProfile, error)

	GetWeeklyAvailability(
		ctx context.Context,
		counsellorID uint,
	) ([]WeeklyAvailabilityRule, error)

	ReplaceWeeklyAvailability(
		ctx context.Context,
		counsellorID uint,
		rules []models.AvailabilityRule,
	) error
}

type Repository interface {
	BookingStore
	ProfileStore
}
