// internal/schedule/window.go
package schedule

import (
	"fmt"
	"time"
)

// DueInstant combines an obligation's calendar date and "HH:MM" (or
// "HH:MM:SS") time-of-day into one instant in now's location. A malformed or
// empty timeOfDay yields an error; callers skip that record and keep scanning.
func DueInstant(now time.Time, date time.Time, timeOfDay string) (time.Time, error) {
	if timeOfDay == "" {
		return time.Time{}, fmt.Errorf("empty time of day")
	}
	var clock time.Time
	var err error
	switch len(timeOfDay) {
	case len("15:04"):
		clock, err = time.Parse("15:04", timeOfDay)
	case len("15:04:05"):
		clock, err = time.Parse("15:04:05", timeOfDay)
	default:
		return time.Time{}, fmt.Errorf("malformed time of day %q", timeOfDay)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed time of day %q: %w", timeOfDay, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, now.Location()), nil
}

// DueWithin reports whether the obligation falls due within the lead window:
// true iff 0 < due - now <= lead. An instant already past is never "due" here
// (that is the overdue scanner's territory), and neither is anything beyond
// the lead window.
func DueWithin(now time.Time, date time.Time, timeOfDay string, lead time.Duration) (bool, error) {
	due, err := DueInstant(now, date, timeOfDay)
	if err != nil {
		return false, err
	}
	diff := due.Sub(now)
	return diff > 0 && diff <= lead, nil
}
