package timezone

import (
	"fmt"
	"sync"
	"time"
)

const DateLayout = "2006-01-02"

var (
	mu              sync.RWMutex
	defaultTimezone = "UTC"
)

// SetDefault changes the zone used when a stored timezone is empty or
// unknown.
func SetDefault(tz string) error {
	if !IsValid(tz) {
		return fmt.Errorf("timezone: unknown zone %q", tz)
	}
	mu.Lock()
	defaultTimezone = tz
	mu.Unlock()
	return nil
}

func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultTimezone
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(Default())
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseDate reads a YYYY-MM-DD calendar date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

// DatesBetween lists the calendar dates, in loc, touched by [start, end).
func DatesBetween(start, end time.Time, loc *time.Location) []string {
	first := start.In(loc)
	last := end.In(loc)
	if end.After(start) {
		last = end.Add(-time.Nanosecond).In(loc)
	}

	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
	var out []string
	for !day.After(last) {
		out = append(out, day.Format(DateLayout))
		day = day.AddDate(0, 0, 1)
	}
	return out
}
