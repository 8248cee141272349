package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/mindbridge-api/internal/audit"
	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/notify"
	"github.com/BruksfildServices01/mindbridge-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	StudentID    uint
	CounsellorID uint
	Start        time.Time
	End          time.Time
	Notes        string
	RequestID    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	deps Deps
}

func NewCreateBooking(deps Deps) *CreateBooking {
	return &CreateBooking{deps: deps.normalize()}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	candidate, err := domain.NewInterval(in.Start, in.End)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Counsellor
	// --------------------------------------------------
	profile, err := uc.deps.Repo.GetCounsellorProfile(ctx, in.CounsellorID)
	if err != nil {
		return nil, err
	}
	if !profile.Active {
		return nil, domain.ErrCounsellorInactive
	}
	if in.StudentID == in.CounsellorID {
		return nil, fmt.Errorf("%w: counsellors cannot book themselves", domain.ErrForbidden)
	}

	// --------------------------------------------------
	// Creation check
	// --------------------------------------------------
	existing, err := uc.deps.Repo.FindActiveBookings(
		ctx,
		in.CounsellorID,
		&domain.DateRange{From: candidate.Start, To: candidate.End},
	)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateNewBooking(
		candidate,
		uc.deps.Now(),
		domain.ToBookedIntervals(existing),
	); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Persist (the store re-checks under lock)
	// --------------------------------------------------
	b := &models.Booking{
		StudentID:    in.StudentID,
		CounsellorID: in.CounsellorID,
		StartTime:    candidate.Start,
		EndTime:      candidate.End,
		Status:       string(domain.InitialStatus()),
		Notes:        in.Notes,
	}

	if err := uc.deps.Repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.deps.invalidate(ctx, b.CounsellorID, profile.Timezone, candidate)

	// --------------------------------------------------
	// Side effects
	// --------------------------------------------------
	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:   &in.StudentID,
		Action:    "booking_created",
		Entity:    "booking",
		EntityID:  &b.ID,
		RequestID: in.RequestID,
		Metadata: map[string]any{
			"counsellor_id": b.CounsellorID,
			"start":         b.StartTime,
			"end":           b.EndTime,
		},
	})

	uc.deps.Notifier.Dispatch(notify.Message{
		UserID:    b.CounsellorID,
		Kind:      notify.KindBookingRequested,
		Title:     "New booking request",
		Body:      "A student requested a session on " + b.StartTime.In(timezone.Location(profile.Timezone)).Format(time.RFC3339),
		BookingID: &b.ID,
	})

	return b, nil
}
