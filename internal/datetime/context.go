package datetime

import (
	"fmt"
	"strings"
	"time"
)

const (
	longDateLayout = "Monday, January 2, 2006"
	clockLayout    = "3:04 PM"
)

// displayLayouts are the accepted date display formats, rendered against now
var displayLayouts = []string{
	longDateLayout,
	"January 2, 2006",
	"1/2/2006",
	"2006-01-02",
	"02-Jan-2006",
}

// Example translates one relative expression into a concrete value
type Example struct {
	Expression string `json:"expression"`
	Value      string `json:"value"`
}

func (e Example) String() string {
	return fmt.Sprintf("%q = %s", e.Expression, e.Value)
}

// Context is the current time frame handed to the prompt assembler
type Context struct {
	Timestamp     string    `json:"timestamp"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	DayOfWeek     string    `json:"day_of_week"`
	Timezone      string    `json:"timezone"`
	UTCOffset     string    `json:"utc_offset"`
	Examples      []Example `json:"examples"`
	BusinessHours string    `json:"business_hours"`
	DateFormats   []string  `json:"date_formats"`
}

// BuildContext describes now in the named zone. now is expected to already be
// in that zone; Calendar.Context takes care of that.
func BuildContext(now time.Time, timezone, businessHours string) Context {
	today := dateOf(now)

	daysUntilMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if daysUntilMonday == 0 {
		daysUntilMonday = 7
	}
	monthDay := upcomingMonthDay(now, time.January, 20)

	examples := []Example{
		{"tomorrow", today.AddDate(0, 0, 1).Format(longDateLayout)},
		{"next week", today.AddDate(0, 0, 7).Format(longDateLayout)},
		{"next Monday", today.AddDate(0, 0, daysUntilMonday).Format(longDateLayout)},
		{"in 3 days", today.AddDate(0, 0, 3).Format(longDateLayout)},
		{"January 20th", monthDay.Format("January 2, 2006")},
		{"3pm", "3:00 PM"},
		{"15:30", "3:30 PM"},
		{"morning", "9:00 AM - 12:00 PM"},
		{"afternoon", "12:00 PM - 5:00 PM"},
		{"evening", "5:00 PM - 8:00 PM"},
	}

	formats := make([]string, 0, len(displayLayouts))
	for _, layout := range displayLayouts {
		formats = append(formats, now.Format(layout))
	}

	return Context{
		Timestamp:     now.Format(time.RFC3339),
		Date:          now.Format(longDateLayout),
		Time:          now.Format(clockLayout),
		DayOfWeek:     now.Weekday().String(),
		Timezone:      timezone,
		UTCOffset:     now.Format("MST"),
		Examples:      examples,
		BusinessHours: businessHours,
		DateFormats:   formats,
	}
}

// Instructions renders the date/time awareness block of the system prompt
func Instructions(c Context) string {
	var b strings.Builder

	b.WriteString("## DATE & TIME AWARENESS\n")
	fmt.Fprintf(&b, "Current Date/Time: %s at %s (%s)\n", c.Date, c.Time, c.UTCOffset)
	fmt.Fprintf(&b, "Today is: %s\n", c.DayOfWeek)
	fmt.Fprintf(&b, "Timezone: %s\n\n", c.Timezone)

	b.WriteString("### Understanding Date/Time References:\n")
	b.WriteString("When users mention dates or times, interpret them as follows:\n")
	for _, ex := range c.Examples {
		fmt.Fprintf(&b, "- %s\n", ex)
	}

	fmt.Fprintf(&b, "\n### Business Hours: %s\n", c.BusinessHours)
	b.WriteString("- Schedule appointments within business hours unless specifically requested otherwise\n")
	b.WriteString("- For after-hours requests, suggest the next available business day\n")
	b.WriteString("- Always confirm the exact date and time in your response\n\n")

	b.WriteString("### Date Format Examples:\n")
	for _, f := range c.DateFormats {
		fmt.Fprintf(&b, "- %s\n", f)
	}

	b.WriteString("\n### Important Guidelines:\n")
	b.WriteString("- Always acknowledge and confirm specific dates/times mentioned by users\n")
	b.WriteString("- Convert relative dates (tomorrow, next week) to specific dates\n")
	b.WriteString("- Clarify ambiguous time references (morning vs specific time)\n")
	b.WriteString("- Consider timezone differences if mentioned\n")
	b.WriteString("- Validate that requested dates are not in the past\n")
	b.WriteString("- For scheduling, always provide both date and time\n")

	return b.String()
}
