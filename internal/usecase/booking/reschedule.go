package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/mindbridge-api/internal/audit"
	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/notify"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
)

type RescheduleInput struct {
	Actor     domain.Actor
	BookingID uint
	Start     time.Time
	End       time.Time
	RequestID string
}

// Reschedule retires a confirmed booking and requests a new slot for the
// same pair. The replacement starts out pending.
type Reschedule struct {
	deps Deps
}

func NewReschedule(deps Deps) *Reschedule {
	return &Reschedule{deps: deps.normalize()}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Booking, error) {

	slot, err := domain.NewInterval(in.Start, in.End)
	if err != nil {
		return nil, err
	}

	b, err := uc.deps.Repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(in.Actor, b) {
		return nil, domain.ErrBookingNotFound
	}
	if err := domain.AuthorizeReschedule(in.Actor, b); err != nil {
		return nil, err
	}
	if _, err := domain.Transition(domain.Status(b.Status), domain.StatusRescheduled); err != nil {
		return nil, err
	}

	profile, err := uc.deps.Repo.GetCounsellorProfile(ctx, b.CounsellorID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Conflict check, ignoring the booking being replaced
	// --------------------------------------------------
	existing, err := uc.deps.Repo.FindActiveBookings(
		ctx,
		b.CounsellorID,
		&domain.DateRange{From: slot.Start, To: slot.End},
	)
	if err != nil {
		return nil, err
	}

	others := existing[:0]
	for _, e := range existing {
		if e.ID != b.ID {
			others = append(others, e)
		}
	}

	now := uc.deps.Now()
	if err := domain.ValidateNewBooking(slot, now, domain.ToBookedIntervals(others)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Swap
	// --------------------------------------------------
	previous := domain.Interval{Start: b.StartTime, End: b.EndTime}

	replacement, err := domain.Reschedule(b, slot, now)
	if err != nil {
		return nil, err
	}

	if err := uc.deps.Repo.RescheduleBooking(ctx, b, replacement); err != nil {
		return nil, err
	}

	uc.deps.invalidate(ctx, b.CounsellorID, profile.Timezone, previous, slot)

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:   &in.Actor.UserID,
		Action:    "booking_rescheduled",
		Entity:    "booking",
		EntityID:  &replacement.ID,
		RequestID: in.RequestID,
		Metadata: map[string]any{
			"rescheduled_from": b.ID,
			"previous_start":   previous.Start,
			"start":            replacement.StartTime,
		},
	})

	loc := timezone.Location(profile.Timezone)
	for _, userID := range counterparts(in.Actor, b.StudentID, b.CounsellorID) {
		uc.deps.Notifier.Dispatch(notify.Message{
			UserID:    userID,
			Kind:      notify.KindBookingRescheduled,
			Title:     "Booking rescheduled",
			Body:      "Session moved to " + replacement.StartTime.In(loc).Format(time.RFC3339),
			BookingID: &replacement.ID,
			Data: map[string]string{
				"rescheduled_from": uitoa(b.ID),
			},
		})
	}

	return replacement, nil
}
