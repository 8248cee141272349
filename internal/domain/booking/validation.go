package booking

import (
	"fmt"
	"sort"
	"time"
)

// ValidateNewBooking runs the checks a booking request must pass before it
// is persisted: a well-formed interval, a start strictly after now, and no
// overlap with an active booking of the same counsellor.
func ValidateNewBooking(candidate Interval, now time.Time, existing []BookedInterval) error {
	if err := candidate.Validate(); err != nil {
		return err
	}

	if !candidate.Start.After(now) {
		return fmt.Errorf(
			"%w: start %s is not after %s",
			ErrStartNotInFuture,
			candidate.Start.Format(time.RFC3339),
			now.Format(time.RFC3339),
		)
	}

	taken, err := HasConflict(candidate, ActiveIntervals(existing))
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf(
			"%w: %s - %s overlaps an existing booking",
			ErrTimeConflict,
			candidate.Start.Format(time.RFC3339),
			candidate.End.Format(time.RFC3339),
		)
	}

	return nil
}

// ValidateWeeklyRules checks every rule and rejects two windows on the same
// weekday that share any minute. Back-to-back windows are allowed.
func ValidateWeeklyRules(rules []WeeklyAvailabilityRule) error {
	byDay := make(map[time.Weekday][]WeeklyAvailabilityRule)

	for idx, r := range rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", idx, err)
		}
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], r)
	}

	for day, dayRules := range byDay {
		sort.Slice(dayRules, func(i, j int) bool {
			return dayRules[i].Start < dayRules[j].Start
		})
		for i := 1; i < len(dayRules); i++ {
			prev, cur := dayRules[i-1], dayRules[i]
			if cur.Start < prev.End {
				return fmt.Errorf(
					"%w: %s %s-%s overlaps %s-%s",
					ErrOverlappingRules,
					day,
					prev.Start, prev.End,
					cur.Start, cur.End,
				)
			}
		}
	}

	return nil
}
