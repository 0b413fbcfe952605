package appointment

import (
	"strconv"
	"testing"
	"time"

	"github.com/benjiemalinao87/myknowledgebase/internal/datetime"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// recordingParser remembers every text it was asked to parse
type recordingParser struct {
	inner *datetime.Calendar
	seen  []string
}

func (p *recordingParser) Parse(text, timezone string) models.ParseResult {
	p.seen = append(p.seen, text)
	return p.inner.Parse(text, timezone)
}

func newParser() *recordingParser {
	// Wednesday 2025-01-15 10:00 UTC
	cal := datetime.NewCalendar(datetime.FixedClock{T: time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)})
	return &recordingParser{inner: cal}
}

func TestExtract_ReplyWins(t *testing.T) {
	p := newParser()
	e := NewExtractor(p)

	got := e.Extract(
		"You're booked for Friday, 1/17 at 3:30 pm.",
		"sometime friday afternoon works",
		nil, "UTC",
	)

	require.True(t, got.Success)
	assert.Equal(t, SourceReply, got.Source)
	assert.Equal(t, "2025-01-17 15:30:00", got.StartTime)
	assert.Equal(t, "2025-01-17 16:30:00", got.EndTime)
	// 3:30 pm is 0.9, friday is 0.7, plus 0.1 for the reply
	assert.Equal(t, 0.8, got.Confidence)
	assert.Len(t, p.seen, 1)
}

func TestExtract_FallsBackToMessage(t *testing.T) {
	p := newParser()
	e := NewExtractor(p)

	got := e.Extract("Sounds good, see you then!", "tomorrow at 9am please", nil, "UTC")

	require.True(t, got.Success)
	assert.Equal(t, SourceMessage, got.Source)
	assert.Equal(t, "2025-01-16 09:00:00", got.StartTime)
	assert.Equal(t, 0.8, got.Confidence)
	assert.Equal(t, []string{"Sounds good, see you then!", "tomorrow at 9am please"}, p.seen)
}

func TestExtract_FallsBackToConversation(t *testing.T) {
	p := newParser()
	e := NewExtractor(p)
	history := []models.ChatExchange{
		{Message: "Can someone come out tomorrow?", Response: "Sure, what time suits you?"},
	}

	got := e.Extract("Great, I'll note that down.", "at 4pm", history, "UTC")

	require.True(t, got.Success)
	assert.Equal(t, SourceConversation, got.Source)
	assert.Equal(t, "2025-01-16 16:00:00", got.StartTime)
	assert.Equal(t, 0.7, got.Confidence)
	require.Len(t, p.seen, 3)
	assert.Equal(t, "Can someone come out tomorrow? Sure, what time suits you? at 4pm Great, I'll note that down.", p.seen[2])
}

func TestExtract_Exhausted(t *testing.T) {
	e := NewExtractor(newParser())

	got := e.Extract("Happy to help.", "what do you charge?", nil, "UTC")

	assert.Equal(t, models.AppointmentCandidate{Success: false}, got)
}

func TestExtract_SkipsEmptyReply(t *testing.T) {
	p := newParser()
	e := NewExtractor(p)

	got := e.Extract("", "today at noon", nil, "UTC")

	require.True(t, got.Success)
	assert.Equal(t, SourceMessage, got.Source)
	assert.Equal(t, []string{"today at noon"}, p.seen)
}

func TestAdjust(t *testing.T) {
	assert.Equal(t, 1.0, adjust(0.9, 0.1))
	assert.Equal(t, 1.0, adjust(0.95, 0.1))
	assert.Equal(t, 0.4, adjust(0.5, -0.1))
	assert.Equal(t, 0.0, adjust(0.05, -0.1))
}

// A reply carrying a concrete time always beats whatever the user wrote.
func TestReplyPriorityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hour := rapid.IntRange(1, 12).Draw(t, "hour")
		period := rapid.SampledFrom([]string{"am", "pm"}).Draw(t, "period")
		message := rapid.SampledFrom([]string{
			"tomorrow morning", "next monday at 8am", "today at noon", "whenever", "",
		}).Draw(t, "message")

		p := newParser()
		reply := "Confirmed for 1/20/2025 at " + strconv.Itoa(hour) + ":15 " + period
		got := NewExtractor(p).Extract(reply, message, nil, "UTC")

		if !got.Success || got.Source != SourceReply {
			t.Fatalf("reply %q not chosen: %+v", reply, got)
		}
		if got.Confidence != 0.9 {
			t.Fatalf("confidence %v", got.Confidence)
		}
	})
}
