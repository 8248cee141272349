package booking

import "fmt"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

// transitions is the complete set of legal status moves. Statuses without
// an entry are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusRescheduled},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusConfirmed, StatusCancelled,
		StatusCompleted, StatusNoShow, StatusRescheduled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsActive reports whether a booking in this status blocks its time range.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status move and returns the target status.
func Transition(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}

// InitialStatus is the status of every newly requested booking.
func InitialStatus() Status {
	return StatusPending
}
