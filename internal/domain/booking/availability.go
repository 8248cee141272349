package booking

import (
	"fmt"
	"time"
)

const DefaultSlotMinutes = 60

// ClockTime is a wall-clock time of day in minutes after midnight.
type ClockTime int

// ParseClock parses a 24-hour "HH:MM" value.
func ParseClock(hm string) (ClockTime, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("%w: time of day %q is not HH:MM", ErrInvalidRule, hm)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On anchors the clock time to the calendar day of date in loc.
func (c ClockTime) On(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, c.Hour(), c.Minute(), 0, 0, loc)
}

// WeeklyAvailabilityRule is a recurring day-of-week window during which a
// counsellor accepts bookings. Start and End are read in Location.
type WeeklyAvailabilityRule struct {
	DayOfWeek time.Weekday
	Start     ClockTime
	End       ClockTime
	Location  *time.Location
}

func (r WeeklyAvailabilityRule) Validate() error {
	if r.DayOfWeek < time.Sunday || r.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week %d outside 0-6", ErrInvalidRule, r.DayOfWeek)
	}
	if r.Start < 0 || r.End >= 24*60 {
		return fmt.Errorf("%w: window %s-%s outside the day", ErrInvalidRule, r.Start, r.End)
	}
	if r.Start >= r.End {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidRule, r.Start, r.End)
	}
	return nil
}

func (r WeeklyAvailabilityRule) location(fallback *time.Location) *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return fallback
}

// BookedInterval is an existing booking as seen by the availability core.
type BookedInterval struct {
	Interval
	Status Status
}

// CandidateSlot is a bookable window produced for one calendar date.
type CandidateSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (s CandidateSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// ComputeAvailableSlots expands the rules matching the weekday of date into
// slotMinutes-long slots and drops those overlapping an active booking.
//
// The calendar date is date's year, month and day in date's own location.
// Each rule is anchored to that calendar date in the rule's location (or
// date's location when the rule has none). Only whole slots are emitted.
// Output follows rule order, then time order within a rule; overlapping
// rules may yield the same slot twice.
func ComputeAvailableSlots(
	rules []WeeklyAvailabilityRule,
	date time.Time,
	existing []BookedInterval,
	slotMinutes int,
) ([]CandidateSlot, error) {

	if slotMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidSlotDuration, slotMinutes)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	for idx, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", idx, err)
		}
	}
	for idx, b := range existing {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("booking %d: %w", idx, err)
		}
	}

	year, month, day := date.Date()
	weekday := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()

	// windows of the rules that apply on this weekday, in rule order
	var windows []Interval
	for _, r := range rules {
		if r.DayOfWeek != weekday {
			continue
		}
		loc := r.location(date.Location())
		windows = append(windows, Interval{
			Start: r.Start.On(year, month, day, loc),
			End:   r.End.On(year, month, day, loc),
		})
	}

	slots := make([]CandidateSlot, 0)
	if len(windows) == 0 {
		return slots, nil
	}

	blocking := activeWithin(existing, hull(windows))
	step := time.Duration(slotMinutes) * time.Minute

	for _, w := range windows {
		for cur := w.Start; !cur.Add(step).After(w.End); cur = cur.Add(step) {
			candidate := Interval{Start: cur, End: cur.Add(step)}

			taken, err := HasConflict(candidate, blocking)
			if err != nil {
				return nil, err
			}
			if taken {
				continue
			}
			slots = append(slots, CandidateSlot{Start: candidate.Start, End: candidate.End})
		}
	}

	return slots, nil
}

// ActiveIntervals keeps the intervals of bookings that still block time.
func ActiveIntervals(existing []BookedInterval) []Interval {
	out := make([]Interval, 0, len(existing))
	for _, b := range existing {
		if b.Status.IsActive() {
			out = append(out, b.Interval)
		}
	}
	return out
}

func activeWithin(existing []BookedInterval, span Interval) []Interval {
	out := make([]Interval, 0, len(existing))
	for _, iv := range ActiveIntervals(existing) {
		if Overlaps(iv, span) {
			out = append(out, iv)
		}
	}
	return out
}

func hull(windows []Interval) Interval {
	span := windows[0]
	for _, w := range windows[1:] {
		if w.Start.Before(span.Start) {
			span.Start = w.Start
		}
		if w.End.After(span.End) {
			span.End = w.End
		}
	}
	return span
}
