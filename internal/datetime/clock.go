// Package datetime resolves natural-language dates and times against a
// pinned notion of "now" and describes the current time frame for prompts.
package datetime

import (
	"time"
	_ "time/tzdata"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

const (
	DefaultTimezone      = "America/Los_Angeles"
	DefaultBusinessHours = "9:00 AM - 5:00 PM"

	// Layout is the wire format of appointment start and end values
	Layout     = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Clock is the only source of the current instant
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// LoadLocation resolves a named zone from the system timezone database.
// Empty or unknown names resolve to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Calendar binds a Clock to the context builder and parser. Each call reads
// the clock exactly once.
type Calendar struct {
	clock Clock
}

func NewCalendar(clock Clock) *Calendar {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Calendar{clock: clock}
}

// Now returns the current instant in the named zone
func (c *Calendar) Now(timezone string) time.Time {
	return c.clock.Now().In(LoadLocation(timezone))
}

// Context builds the current time frame for the named zone
func (c *Calendar) Context(timezone, businessHours string) Context {
	return BuildContext(c.Now(timezone), timezone, businessHours)
}

// Parse resolves a date and time mentioned in text relative to now in the named zone
func (c *Calendar) Parse(text, timezone string) models.ParseResult {
	return ParseAt(text, c.Now(timezone), timezone)
}
