package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/mindbridge-api/internal/domain/booking"
	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type ListBookingsInput struct {
	Actor        domain.Actor
	Statuses     []string
	From         *time.Time
	To           *time.Time
	CounsellorID *uint // admin only
	StudentID    *uint // admin only
	Limit        int
	Offset       int
}

type ListBookingsOutput struct {
	Items  []models.Booking
	Total  int64
	Limit  int
	Offset int
}

type ListBookings struct {
	deps Deps
}

func NewListBookings(deps Deps) *ListBookings {
	return &ListBookings{deps: deps.normalize()}
}

func (uc *ListBookings) Execute(
	ctx context.Context,
	in ListBookingsInput,
) (*ListBookingsOutput, error) {

	f := domain.ListFilter{
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	// scope by role
	switch in.Actor.Role {
	case models.RoleAdmin:
		f.CounsellorID = in.CounsellorID
		f.StudentID = in.StudentID
	case models.RoleCounsellor:
		id := in.Actor.UserID
		f.CounsellorID = &id
	case models.RoleStudent:
		id := in.Actor.UserID
		f.StudentID = &id
	default:
		return nil, domain.ErrForbidden
	}

	for _, s := range in.Statuses {
		st, err := domain.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		f.Statuses = append(f.Statuses, st)
	}

	if in.From != nil || in.To != nil {
		if in.From == nil || in.To == nil {
			return nil, fmt.Errorf("%w: both from and to are required", domain.ErrInvalidInterval)
		}
		window, err := domain.NewInterval(*in.From, *in.To)
		if err != nil {
			return nil, err
		}
		f.Range = &domain.DateRange{From: window.Start, To: window.End}
	}

	items, total, err := uc.deps.Repo.ListBookings(ctx, f)
	if err != nil {
		return nil, err
	}

	return &ListBookingsOutput{
		Items:  items,
		Total:  total,
		Limit:  f.Limit,
		Offset: f.Offset,
	}, nil
}

// GetBooking returns a booking the actor is a party to.
type GetBooking struct {
	deps Deps
}

func NewGetBooking(deps Deps) *GetBooking {
	return &GetBooking{deps: deps.normalize()}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	id uint,
) (*models.Booking, error) {

	b, err := uc.deps.Repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(actor, b) {
		return nil, domain.ErrBookingNotFound
	}
	return b, nil
}
