package datetime

import (
	"fmt"
	"time"
)

// ParseLocal reads a Layout value ("2006-01-02 15:04:05") as wall time in the named zone
func ParseLocal(value, timezone string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, value, LoadLocation(timezone))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse local time %q: %w", value, err)
	}
	return t, nil
}

// WithinBusinessHours reports whether the time of day of value falls in the
// inclusive window [start, end]. value is a Layout or "15:04:05" string,
// start and end are "15:04". Unreadable input is outside business hours.
func WithinBusinessHours(value, start, end string) bool {
	tod, ok := timeOfDay(value)
	if !ok {
		return false
	}
	from, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	to, err := time.Parse("15:04", end)
	if err != nil {
		return false
	}
	return !tod.Before(from) && !tod.After(to)
}

func timeOfDay(value string) (time.Time, bool) {
	for _, layout := range []string{Layout, timeLayout, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// IsFuture reports whether a Layout value in the named zone lies after now
func IsFuture(value, timezone string, now time.Time) bool {
	t, err := ParseLocal(value, timezone)
	if err != nil {
		return false
	}
	return t.After(now)
}
