package booking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/httperr"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
	usecase "github.com/BruksfildServices01/mindbridge-api/internal/usecase/booking"
)

func seedMixed(f *fixture) {
	f.seed(at(9, 0), at(10, 0), domain.StatusConfirmed)
	f.seed(at(10, 0), at(11, 0), domain.StatusCancelled)
	f.store.Seed(models.Booking{
		StudentID:    otherStudent,
		CounsellorID: counsellorID,
		StartTime:    at(11, 0),
		EndTime:      at(12, 0),
		Status:       string(domain.StatusPending),
	})
}

func TestListBookings_ScopedByRole(t *testing.T) {
	f := newFixture(t)
	seedMixed(f)
	uc := usecase.NewListBookings(f.deps())

	mine, err := uc.Execute(context.Background(), usecase.ListBookingsInput{Actor: student})
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Total)
	for _, b := range mine.Items {
		assert.Equal(t, studentID, b.StudentID)
	}

	theirs, err := uc.Execute(context.Background(), usecase.ListBookingsInput{Actor: counsellor})
	require.NoError(t, err)
	assert.EqualValues(t, 3, theirs.Total)

	// a student cannot widen the scope
	other := counsellorID
	scoped, err := uc.Execute(context.Background(), usecase.ListBookingsInput{Actor: stranger, StudentID: &other})
	require.NoError(t, err)
	assert.EqualValues(t, 1, scoped.Total)
	assert.Equal(t, otherStudent, scoped.Items[0].StudentID)

	filtered, err := uc.Execute(context.Background(), usecase.ListBookingsInput{Actor: admin, StudentID: &other})
	require.NoError(t, err)
	assert.Zero(t, filtered.Total)
}

func TestListBookings_Filters(t *testing.T) {
	f := newFixture(t)
	seedMixed(f)
	uc := usecase.NewListBookings(f.deps())

	active, err := uc.Execute(context.Background(), usecase.ListBookingsInput{
		Actor:    counsellor,
		Statuses: []string{"pending", "confirmed"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, active.Total)

	from, to := at(9, 30), at(10, 30)
	window, err := uc.Execute(context.Background(), usecase.ListBookingsInput{
		Actor: counsellor,
		From:  &from,
		To:    &to,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, window.Total)

	page, err := uc.Execute(context.Background(), usecase.ListBookingsInput{
		Actor:  counsellor,
		Limit:  1,
		Offset: 1,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].StartTime.Equal(at(10, 0)))
}

func TestListBookings_BadInput(t *testing.T) {
	f := newFixture(t)
	uc := usecase.NewListBookings(f.deps())
	from := at(10, 0)
	before := at(9, 0)

	_, err := uc.Execute(context.Background(), usecase.ListBookingsInput{Actor: admin, Statuses: []string{"done"}})
	assert.Equal(t, "invalid_status", httperr.CodeOf(err))

	_, err = uc.Execute(context.Background(), usecase.ListBookingsInput{Actor: admin, From: &from})
	assert.Equal(t, "invalid_interval", httperr.CodeOf(err))

	_, err = uc.Execute(context.Background(), usecase.ListBookingsInput{Actor: admin, From: &from, To: &before})
	assert.Equal(t, "invalid_interval", httperr.CodeOf(err))

	_, err = uc.Execute(context.Background(), usecase.ListBookingsInput{Actor: domain.Actor{UserID: 5, Role: "guest"}})
	assert.Equal(t, "forbidden", httperr.CodeOf(err))
}

func TestGetBooking_OnlyParties(t *testing.T) {
	f := newFixture(t)
	b := f.seed(at(9, 0), at(10, 0), domain.StatusConfirmed)
	uc := usecase.NewGetBooking(f.deps())

	for _, actor := range []domain.Actor{student, counsellor, admin} {
		got, err := uc.Execute(context.Background(), actor, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	}

	_, err := uc.Execute(context.Background(), stranger, b.ID)
	assert.Equal(t, "booking_not_found", httperr.CodeOf(err))
}
