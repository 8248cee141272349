package booking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/notify"
	usecase "github.com/BruksfildServices01/mindbridge-api/internal/usecase/booking"
)

func TestReschedule_OverlappingOwnSlot(t *testing.T) {
	f := newFixture(t)
	old := f.seed(at(10, 0), at(11, 0), domain.StatusConfirmed)
	f.notifier.On("Dispatch", notifies(counsellorID, notify.KindBookingRescheduled)).Once()

	// moving by half an hour overlaps only the booking being replaced
	got, err := usecase.NewReschedule(f.deps()).Execute(context.Background(), usecase.RescheduleInput{
		Actor:     student,
		BookingID: old.ID,
		Start:     at(10, 30),
		End:       at(11, 30),
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), got.Status)
	require.NotNil(t, got.RescheduledFromID)
	assert.Equal(t, old.ID, *got.RescheduledFromID)
	assert.True(t, got.StartTime.Equal(at(10, 30)))

	retired, err := f.store.GetBooking(context.Background(), old.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRescheduled), retired.Status)
	assert.NotNil(t, retired.RescheduledAt)

	assert.Contains(t, f.cache.invalidated, "2026-03-16")
	f.notifier.AssertExpectations(t)
}

func TestReschedule_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		actor domain.Actor
		from  domain.Status
		code  string
	}{
		{"pending booking", student, domain.StatusPending, "invalid_transition"},
		{"cancelled booking", counsellor, domain.StatusCancelled, "invalid_transition"},
		{"stranger", stranger, domain.StatusConfirmed, "booking_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			old := f.seed(at(9, 0), at(10, 0), tc.from)

			_, err := usecase.NewReschedule(f.deps()).Execute(context.Background(), usecase.RescheduleInput{
				Actor:     tc.actor,
				BookingID: old.ID,
				Start:     at(11, 0),
				End:       at(12, 0),
			})

			assert.Equal(t, tc.code, httperr.CodeOf(err))
			assert.Len(t, f.store.Bookings(), 1)
			f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything)
		})
	}
}

func TestReschedule_ConflictWithAnotherBooking(t *testing.T) {
	f := newFixture(t)
	old := f.seed(at(9, 0), at(10, 0), domain.StatusConfirmed)
	f.seed(at(11, 0), at(12, 0), domain.StatusPending)

	_, err := usecase.NewReschedule(f.deps()).Execute(context.Background(), usecase.RescheduleInput{
		Actor:     counsellor,
		BookingID: old.ID,
		Start:     at(11, 30),
		End:       at(12, 30),
	})

	assert.Equal(t, "time_conflict", httperr.CodeOf(err))

	stored, err := f.store.GetBooking(context.Background(), old.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), stored.Status)
}

func TestReschedule_NewStartMustBeInFuture(t *testing.T) {
	f := newFixture(t)
	f.now = at(9, 30)
	old := f.seed(at(11, 0), at(12, 0), domain.StatusConfirmed)

	_, err := usecase.NewReschedule(f.deps()).Execute(context.Background(), usecase.RescheduleInput{
		Actor:     counsellor,
		BookingID: old.ID,
		Start:     at(9, 0),
		End:       at(10, 0),
	})

	assert.Equal(t, "start_not_in_future", httperr.CodeOf(err))
}
