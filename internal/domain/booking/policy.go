package booking

import (
	"fmt"

	"github.com/BruksfildServices01/mindbridge-api/internal/models"
)

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	UserID uint
	Role   models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanView reports whether the actor is a party to the booking or an admin.
func CanView(a Actor, b *models.Booking) bool {
	if a.IsAdmin() {
		return true
	}
	return b.StudentID == a.UserID || b.CounsellorID == a.UserID
}

// AuthorizeTransition decides who may move a booking to target. Students
// may only cancel their own bookings; counsellors act on bookings assigned
// to them; admins may do anything the transition table allows.
func AuthorizeTransition(a Actor, b *models.Booking, target Status) error {
	if a.IsAdmin() {
		return nil
	}

	switch a.Role {
	case models.RoleStudent:
		if b.StudentID == a.UserID && target == StatusCancelled {
			return nil
		}
	case models.RoleCounsellor:
		if b.CounsellorID == a.UserID {
			return nil
		}
	}

	return fmt.Errorf("%w: %s %d cannot set booking %d to %s", ErrForbidden, a.Role, a.UserID, b.ID, target)
}

// AuthorizeReschedule allows either party of the booking, or an admin.
func AuthorizeReschedule(a Actor, b *models.Booking) error {
	if CanView(a, b) {
		return nil
	}
	return fmt.Errorf("%w: %s %d cannot reschedule booking %d", ErrForbidden, a.Role, a.UserID, b.ID)
}
