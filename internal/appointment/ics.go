package appointment

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/benjiemalinao87/myknowledgebase/internal/datetime"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

const (
	icsLocalLayout = "20060102T150405"
	icsUTCLayout   = "20060102T150405Z"
	icsLineLimit   = 75
	uidDomain      = "myknowledgebase"
)

// Event carries the human-readable fields of a calendar entry
type Event struct {
	Summary     string
	Description string
	Location    string
}

// RenderICS renders the appointment as a single-event VCALENDAR. Start and
// end are written as wall time with a TZID and a VTIMEZONE built from the
// timezone database for the year of the appointment.
func RenderICS(a models.Appointment, ev Event, now time.Time) ([]byte, error) {
	tz := a.Timezone
	if tz == "" {
		tz = "UTC"
	}
	start, err := datetime.ParseLocal(a.StartTime, tz)
	if err != nil {
		return nil, fmt.Errorf("render ics start: %w", err)
	}
	end, err := datetime.ParseLocal(a.EndTime, tz)
	if err != nil {
		return nil, fmt.Errorf("render ics end: %w", err)
	}

	uid := a.ID
	if uid == "" {
		uid = uuid.NewString()
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//myknowledgebase//Appointments//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	lines = append(lines, vtimezone(start.Location(), tz, start.Year())...)
	lines = append(lines,
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s@%s", uid, uidDomain),
		"DTSTAMP:"+now.UTC().Format(icsUTCLayout),
		fmt.Sprintf("DTSTART;TZID=%s:%s", tz, start.Format(icsLocalLayout)),
		fmt.Sprintf("DTEND;TZID=%s:%s", tz, end.Format(icsLocalLayout)),
		"SUMMARY:"+escapeText(ev.Summary),
	)
	if ev.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeText(ev.Description))
	}
	if ev.Location != "" {
		lines = append(lines, "LOCATION:"+escapeText(ev.Location))
	}
	lines = append(lines,
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	)

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(fold(l))
		b.WriteString("\r\n")
	}
	return []byte(b.String()), nil
}

// vtimezone describes the offsets of loc during year. A zone without a
// seasonal change gets a single STANDARD block; otherwise each transition in
// the year becomes its own block.
func vtimezone(loc *time.Location, tzid string, year int) []string {
	jan := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	jul := time.Date(year, time.July, 1, 0, 0, 0, 0, loc)
	janName, janOffset := jan.Zone()
	_, julOffset := jul.Zone()

	out := []string{"BEGIN:VTIMEZONE", "TZID:" + tzid}
	if janOffset == julOffset {
		out = append(out, observance("STANDARD", "19700101T000000", janOffset, janOffset, janName)...)
		return append(out, "END:VTIMEZONE")
	}

	for _, sample := range []time.Time{jan, jul} {
		_, fromOffset := sample.Zone()
		_, transition := sample.ZoneBounds()
		if transition.IsZero() {
			continue
		}
		name, toOffset := transition.Zone()
		kind := "STANDARD"
		if transition.IsDST() {
			kind = "DAYLIGHT"
		}
		local := transition.In(time.FixedZone("", fromOffset)).Format(icsLocalLayout)
		out = append(out, observance(kind, local, fromOffset, toOffset, name)...)
	}
	return append(out, "END:VTIMEZONE")
}

func observance(kind, start string, from, to int, name string) []string {
	return []string{
		"BEGIN:" + kind,
		"TZOFFSETFROM:" + formatOffset(from),
		"TZOFFSETTO:" + formatOffset(to),
		"TZNAME:" + name,
		"DTSTART:" + start,
		"END:" + kind,
	}
}

// formatOffset renders seconds east of UTC as +HHMM
func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d%02d", sign, seconds/3600, seconds%3600/60)
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// fold splits a content line into 75-octet chunks joined by CRLF and a space,
// never inside a UTF-8 sequence.
func fold(line string) string {
	if len(line) <= icsLineLimit {
		return line
	}
	var b strings.Builder
	limit := icsLineLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines lose one octet to the leading space
		limit = icsLineLimit - 1
	}
	b.WriteString(line)
	return b.String()
}
