package booking

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Apply moves b to target, stamping the matching timestamp. Completion and
// no-show can only be recorded once the session has started.
func Apply(b *models.Booking, target Status, now time.Time, reason string) error {
	if target == StatusRescheduled {
		return fmt.Errorf("%w: use reschedule to replace a booking", ErrInvalidTransition)
	}

	next, err := Transition(Status(b.Status), target)
	if err != nil {
		return err
	}

	switch next {
	case StatusConfirmed:
		b.ConfirmedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
		b.CancelReason = reason
	case StatusCompleted, StatusNoShow:
		if now.Before(b.StartTime) {
			return fmt.Errorf("%w: session starts at %s", ErrTooEarly, b.StartTime.Format(time.RFC3339))
		}
		b.CompletedAt = &now
	}

	b.Status = string(next)
	return nil
}

// Reschedule retires b and returns the pending booking that replaces it.
func Reschedule(b *models.Booking, slot Interval, now time.Time) (*models.Booking, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	next, err := Transition(Status(b.Status), StatusRescheduled)
	if err != nil {
		return nil, err
	}

	b.Status = string(next)
	b.RescheduledAt = &now

	fromID := b.ID
	return &models.Booking{
		StudentID:         b.StudentID,
		CounsellorID:      b.CounsellorID,
		StartTime:         slot.Start,
		EndTime:           slot.End,
		Status:            string(InitialStatus()),
		Notes:             b.Notes,
		RescheduledFromID: &fromID,
	}, nil
}

// ToBookedIntervals adapts persisted bookings to the availability core.
func ToBookedIntervals(bookings []models.Booking) []BookedInterval {
	out := make([]BookedInterval, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookedInterval{
			Interval: Interval{Start: b.StartTime, End: b.EndTime},
			Status:   Status(b.Status),
		})
	}
	return out
}

// RulesFromModels parses stored availability rules in the counsellor's zone.
func RulesFromModels(rows []models.AvailabilityRule, loc *time.Location) ([]WeeklyAvailabilityRule, error) {
	out := make([]WeeklyAvailabilityRule, 0, len(rows))
	for _, row := range rows {
		start, err := ParseClock(row.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(row.EndTime)
		if err != nil {
			return nil, err
		}
		out = append(out, WeeklyAvailabilityRule{
			DayOfWeek: time.Weekday(row.DayOfWeek),
			Start:     start,
			End:       end,
			Location:  loc,
		})
	}
	return out, nil
}
