package booking

import (
	"context"

	"github.com/BruksfildServices01/mindbridge-api/internal/audit"
	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/notify"
)

type ChangeStatusInput struct {
	Actor     domain.Actor
	BookingID uint
	Status    string
	Reason    string
	RequestID string
}

type ChangeStatus struct {
	deps Deps
}

func NewChangeStatus(deps Deps) *ChangeStatus {
	return &ChangeStatus{deps: deps.normalize()}
}

var statusNotice = map[domain.Status]struct {
	kind  notify.Kind
	title string
}{
	domain.StatusConfirmed: {notify.KindBookingConfirmed, "Booking confirmed"},
	domain.StatusCancelled: {notify.KindBookingCancelled, "Booking cancelled"},
	domain.StatusCompleted: {notify.KindBookingCompleted, "Session completed"},
	domain.StatusNoShow:    {notify.KindBookingNoShow, "Session marked as no-show"},
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Booking, error) {

	target, err := domain.ParseStatus(in.Status)
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

	if err := domain.AuthorizeTransition(in.Actor, b, target); err != nil {
		return nil, err
	}

	from := b.Status
	if err := domain.Apply(b, target, uc.deps.Now(), in.Reason); err != nil {
		return nil, err
	}

	// the write only lands if nobody moved the booking since it was read
	if err := uc.deps.Repo.UpdateBooking(ctx, b, domain.Status(from)); err != nil {
		return nil, err
	}

	// a booking leaving the active set frees its slot
	if !target.IsActive() {
		if profile, err := uc.deps.Repo.GetCounsellorProfile(ctx, b.CounsellorID); err == nil {
			uc.deps.invalidate(ctx, b.CounsellorID, profile.Timezone, domain.Interval{Start: b.StartTime, End: b.EndTime})
		}
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:   &in.Actor.UserID,
		Action:    "booking_" + string(target),
		Entity:    "booking",
		EntityID:  &b.ID,
		RequestID: in.RequestID,
		Metadata: map[string]any{
			"from":   from,
			"to":     b.Status,
			"reason": in.Reason,
		},
	})

	if notice, ok := statusNotice[target]; ok {
		body := "Booking #" + uitoa(b.ID) + " is now " + b.Status
		if in.Reason != "" {
			body += ": " + in.Reason
		}
		for _, userID := range counterparts(in.Actor, b.StudentID, b.CounsellorID) {
			uc.deps.Notifier.Dispatch(notify.Message{
				UserID:    userID,
				Kind:      notice.kind,
				Title:     notice.title,
				Body:      body,
				BookingID: &b.ID,
			})
		}
	}

	return b, nil
}
