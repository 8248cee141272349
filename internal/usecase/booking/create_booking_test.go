package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	"github.com/BruksfildServices01/mindbridge-api/internal/notify"
	usecase "github.com/BruksfildServices01/mindbridge-api/internal/usecase/booking"
)

func request(start, end time.Time) usecase.CreateBookingInput {
	return usecase.CreateBookingInput{
		StudentID:    studentID,
		CounsellorID: counsellorID,
		Start:        start,
		End:          end,
		Notes:        "first session",
	}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture(t)
	f.seed(at(9, 0), at(10, 0), domain.StatusConfirmed)
	f.notifier.On("Dispatch", notifies(counsellorID, notify.KindBookingRequested)).Once()

	b, err := usecase.NewCreateBooking(f.deps()).Execute(context.Background(), request(at(10, 0), at(11, 0)))

	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.Equal(t, "first session", b.Notes)
	assert.Len(t, f.store.Bookings(), 2)
	assert.Equal(t, []string{"2026-03-16"}, f.cache.invalidated)
	f.notifier.AssertExpectations(t)
}

func TestCreateBooking_Rejections(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		code  string
	}{
		{"overlaps confirmed booking", at(10, 30), at(11, 30), "time_conflict"},
		{"overlaps pending booking", at(11, 0), at(12, 0), "time_conflict"},
		{"end before start", at(11, 0), at(10, 0), "invalid_interval"},
		{"zero length", at(11, 0), at(11, 0), "invalid_interval"},
		{"start in the past", sundayNoon.Add(-time.Hour), sundayNoon, "start_not_in_future"},
		{"start exactly now", sundayNoon, sundayNoon.Add(time.Hour), "start_not_in_future"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(at(10, 0), at(11, 0), domain.StatusConfirmed)
			f.seed(at(11, 30), at(12, 0), domain.StatusPending)
			before := f.store.Bookings()

			b, err := usecase.NewCreateBooking(f.deps()).Execute(context.Background(), request(tc.start, tc.end))

			require.Error(t, err)
			assert.Nil(t, b)
			assert.Equal(t, tc.code, httperr.CodeOf(err))
			assert.Equal(t, before, f.store.Bookings())
			assert.Empty(t, f.cache.invalidated)
			f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything)
		})
	}
}

func TestCreateBooking_TerminalBookingsDoNotBlock(t *testing.T) {
	f := newFixture(t)
	for _, st := range []domain.Status{
		domain.StatusCancelled,
		domain.StatusCompleted,
		domain.StatusNoShow,
		domain.StatusRescheduled,
	} {
		f.seed(at(10, 0), at(11, 0), st)
	}
	f.notifier.On("Dispatch", mock.Anything)

	_, err := usecase.NewCreateBooking(f.deps()).Execute(context.Background(), request(at(10, 0), at(11, 0)))

	require.NoError(t, err)
}

func TestCreateBooking_BackToBackIsAllowed(t *testing.T) {
	f := newFixture(t)
	f.seed(at(10, 0), at(11, 0), domain.StatusConfirmed)
	f.notifier.On("Dispatch", mock.Anything)

	_, err := usecase.NewCreateBooking(f.deps()).Execute(context.Background(), request(at(11, 0), at(12, 0)))

	require.NoError(t, err)
}

func TestCreateBooking_CounsellorChecks(t *testing.T) {
	t.Run("unknown counsellor", func(t *testing.T) {
		f := newFixture(t)
		in := request(at(10, 0), at(11, 0))
		in.CounsellorID = 999

		_, err := usecase.NewCreateBooking(f.deps()).Execute(context.Background(), in)

		assert.Equal(t, "counsellor_not_found", httperr.CodeOf(err))
	})

	t.Run("inactive counsellor", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetActive(counsellorID, false)

		_, err := usecase.NewCreateBooking(f.deps()).Execute(context.Background(), request(at(10, 0), at(11, 0)))

		assert.Equal(t, "counsellor_unavailable", httperr.CodeOf(err))
	})

	t.Run("self booking", func(t *testing.T) {
		f := newFixture(t)
		in := request(at(10, 0), at(11, 0))
		in.StudentID = counsellorID

		_, err := usecase.NewCreateBooking(f.deps()).Execute(context.Background(), in)

		assert.Equal(t, "forbidden", httperr.CodeOf(err))
	})
}

// staleReads hides existing bookings from the pre-check, as a concurrent
// writer would, so only the store's own guard is left.
type staleReads struct {
	domain.Repository
}

func (staleReads) FindActiveBookings(context.Context, uint, *domain.DateRange) ([]models.Booking, error) {
	return nil, nil
}

func TestCreateBooking_StoreRaceSurfacesSlotUnavailable(t *testing.T) {
	f := newFixture(t)
	f.seed(at(10, 0), at(11, 0), domain.StatusPending)

	deps := f.deps()
	deps.Repo = staleReads{Repository: f.store}

	_, err := usecase.NewCreateBooking(deps).Execute(context.Background(), request(at(10, 0), at(11, 0)))

	require.Error(t, err)
	assert.Equal(t, "slot_unavailable", httperr.CodeOf(err))
	assert.Len(t, f.store.Bookings(), 1)
	f.notifier.AssertNotCalled(t, "Dispatch", mock.Anything)
}
