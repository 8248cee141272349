package booking

import (
	"fmt"
	"time"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval builds an interval, rejecting empty or inverted ranges.
func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

func (i Interval) Validate() error {
	if i.Start.IsZero() || i.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInterval)
	}
	if !i.Start.Before(i.End) {
		return fmt.Errorf(
			"%w: start %s is not before end %s",
			ErrInvalidInterval,
			i.Start.Format(time.RFC3339),
			i.End.Format(time.RFC3339),
		)
	}
	return nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether a and b share an instant. An interval ending
// exactly when the other begins does not overlap it.
//
// Both intervals must be valid; use NewInterval or HasConflict when the
// inputs come from outside.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// HasConflict reports whether candidate overlaps any interval in existing.
// It applies no status filtering: existing must already hold only the
// intervals that block.
func HasConflict(candidate Interval, existing []Interval) (bool, error) {
	if err := candidate.Validate(); err != nil {
		return false, err
	}

	for idx, e := range existing {
		if err := e.Validate(); err != nil {
			return false, fmt.Errorf("existing interval %d: %w", idx, err)
		}
		if Overlaps(candidate, e) {
			return true, nil
		}
	}
	return false, nil
}
