package datetime

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

var (
	ErrUnparseableTime = errors.New("could not parse time from text")
	ErrUnparseableDate = errors.New("could not parse date from text")
)

const (
	weekdayPattern = `(sunday|monday|tuesday|wednesday|thursday|friday|saturday)`
	monthPattern   = `(january|february|march|april|may|june|july|august|september|october|november|december)`

	// a bare weekday named on the same day rolls a week once this hour is reached
	sameDayCutoffHour = 17
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
	"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March, "april": time.April,
	"may": time.May, "june": time.June, "july": time.July, "august": time.August,
	"september": time.September, "october": time.October, "november": time.November, "december": time.December,
}

// clockTime is a time of day on the 24-hour clock
type clockTime struct {
	hour, minute int
}

// timeRule resolves a regexp match into a clock time. Rules are ordered from
// most to least specific; the first rule with a valid match wins.
type timeRule struct {
	name       string
	pattern    *regexp.Regexp
	confidence float64
	resolve    func(m []string) (clockTime, bool)
}

// dateRule resolves a regexp match into a calendar date relative to now
type dateRule struct {
	name       string
	pattern    *regexp.Regexp
	confidence float64
	resolve    func(m []string, now time.Time) (time.Time, bool)
}

var timeRules = []timeRule{
	{"clock-meridiem", regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*([ap])\.?m\b\.?`), 0.9, resolveTwelveHour},
	{"hour-meridiem", regexp.MustCompile(`\b(\d{1,2})\s*([ap])\.?m\b\.?`), 0.8, resolveTwelveHour},
	{"clock-24h", regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`), 0.7, resolveTwentyFourHour},
	{"noon", regexp.MustCompile(`\bnoon\b`), 0.9, fixedTime(12, 0)},
	{"midnight", regexp.MustCompile(`\bmidnight\b`), 0.9, fixedTime(0, 0)},
	{"morning", regexp.MustCompile(`\bmorning\b`), 0.5, fixedTime(9, 0)},
	{"afternoon", regexp.MustCompile(`\bafternoon\b`), 0.5, fixedTime(14, 0)},
	{"evening", regexp.MustCompile(`\bevening\b`), 0.5, fixedTime(18, 0)},
}

var dateRules = []dateRule{
	{"today", regexp.MustCompile(`\btoday\b`), 0.9, relativeDays(0)},
	{"tomorrow", regexp.MustCompile(`\btomorrow\b`), 0.9, relativeDays(1)},
	{"next-weekday", regexp.MustCompile(`\bnext\s+` + weekdayPattern + `\b`), 0.8, resolveNextWeekday},
	{"this-weekday", regexp.MustCompile(`\bthis\s+` + weekdayPattern + `\b`), 0.8, resolveThisWeekday},
	// leftmost weekday in the text wins, not the first in calendar order
	{"weekday", regexp.MustCompile(`\b` + weekdayPattern + `\b`), 0.7, resolveBareWeekday},
	{"month-day", regexp.MustCompile(`\b` + monthPattern + `\s+(\d{1,2})(?:st|nd|rd|th)?\b`), 0.8, resolveMonthDay},
	{"numeric", regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`), 0.8, resolveNumericDate},
}

// ParseAt resolves the first date and time mentioned in text, relative to
// now. The zero-argument seam for "now" lives in Calendar; ParseAt is pure.
func ParseAt(text string, now time.Time, timezone string) models.ParseResult {
	normalized := strings.ToLower(strings.TrimSpace(text))

	clock, timeConfidence, ok := extractTime(normalized)
	if !ok {
		return models.ParseResult{Success: false, Error: ErrUnparseableTime.Error()}
	}

	date, dateConfidence, ok := extractDate(normalized, now)
	if !ok {
		return models.ParseResult{Success: false, Error: ErrUnparseableDate.Error()}
	}

	confidence := min(timeConfidence, dateConfidence)
	start := time.Date(date.Year(), date.Month(), date.Day(), clock.hour, clock.minute, 0, 0, time.UTC)
	// wall-clock arithmetic: crossing midnight moves the end onto the next date
	end := start.Add(time.Hour)

	return models.ParseResult{
		Success:   true,
		StartTime: parsedDateTime(start, confidence, timezone),
		EndTime:   parsedDateTime(end, confidence, timezone),
	}
}

func parsedDateTime(t time.Time, confidence float64, timezone string) *models.ParsedDateTime {
	return &models.ParsedDateTime{
		Date:         t.Format(dateLayout),
		Time:         t.Format(timeLayout),
		FullDateTime: t.Format(Layout),
		Confidence:   confidence,
		Timezone:     timezone,
	}
}

func extractTime(text string) (clockTime, float64, bool) {
	for _, r := range timeRules {
		for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
			if c, ok := r.resolve(m); ok {
				return c, r.confidence, true
			}
		}
	}
	return clockTime{}, 0, false
}

func extractDate(text string, now time.Time) (time.Time, float64, bool) {
	for _, r := range dateRules {
		for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
			if d, ok := r.resolve(m, now); ok {
				return d, r.confidence, true
			}
		}
	}
	return time.Time{}, 0, false
}

// resolveTwelveHour handles "H:MM am" (4 groups) and "H am" (3 groups); the
// last group is the meridiem letter, with or without dots in the text
func resolveTwelveHour(m []string) (clockTime, bool) {
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	period := m[len(m)-1] + "m"
	if len(m) == 4 {
		minute, _ = strconv.Atoi(m[2])
	}
	if hour < 1 || hour > 12 || minute > 59 {
		return clockTime{}, false
	}
	return clockTime{hour: to24Hour(hour, period), minute: minute}, true
}

// to24Hour converts a 1-12 hour: 12am is 0, 12pm stays 12, other pm hours add 12
func to24Hour(hour int, period string) int {
	switch {
	case period == "pm" && hour != 12:
		return hour + 12
	case period == "am" && hour == 12:
		return 0
	}
	return hour
}

func resolveTwentyFourHour(m []string) (clockTime, bool) {
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return clockTime{}, false
	}
	return clockTime{hour: hour, minute: minute}, true
}

func fixedTime(hour, minute int) func([]string) (clockTime, bool) {
	return func([]string) (clockTime, bool) {
		return clockTime{hour: hour, minute: minute}, true
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func relativeDays(days int) func([]string, time.Time) (time.Time, bool) {
	return func(_ []string, now time.Time) (time.Time, bool) {
		return dateOf(now).AddDate(0, 0, days), true
	}
}

func weekdayDelta(now time.Time, name string) int {
	return int(weekdays[name]) - int(now.Weekday())
}

// resolveNextWeekday picks the first occurrence strictly after today
func resolveNextWeekday(m []string, now time.Time) (time.Time, bool) {
	delta := weekdayDelta(now, m[1])
	if delta <= 0 {
		delta += 7
	}
	return dateOf(now).AddDate(0, 0, delta), true
}

// resolveThisWeekday picks the occurrence in the current Sunday-based week, even if past
func resolveThisWeekday(m []string, now time.Time) (time.Time, bool) {
	return dateOf(now).AddDate(0, 0, weekdayDelta(now, m[1])), true
}

// resolveBareWeekday picks the next occurrence; naming today after the
// cutoff hour means the same day next week.
func resolveBareWeekday(m []string, now time.Time) (time.Time, bool) {
	delta := weekdayDelta(now, m[1])
	if delta < 0 {
		delta += 7
	} else if delta == 0 && now.Hour() >= sameDayCutoffHour {
		delta = 7
	}
	return dateOf(now).AddDate(0, 0, delta), true
}

func resolveMonthDay(m []string, now time.Time) (time.Time, bool) {
	day, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	return upcomingMonthDay(now, months[m[1]], day), true
}

// upcomingMonthDay resolves a month and day in the current year, or in the
// next year when that date is already behind today.
func upcomingMonthDay(now time.Time, month time.Month, day int) time.Time {
	d := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if d.Before(dateOf(now)) {
		d = time.Date(now.Year()+1, month, day, 0, 0, 0, 0, now.Location())
	}
	return d
}

// resolveNumericDate accepts M/D and M/D/YYYY. Only day in [1,31] is checked;
// a day past the end of its month carries into the next month.
func resolveNumericDate(m []string, now time.Time) (time.Time, bool) {
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year := now.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location()), true
}
