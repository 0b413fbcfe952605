// Package appointment settles on a single appointment slot from the text of a
// conversation and renders it as an iCalendar file.
package appointment

import (
	"math"
	"strings"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

// Sources a candidate can be taken from, most trusted first
const (
	SourceReply        = "generated_reply"
	SourceMessage      = "user_message"
	SourceConversation = "conversation"
)

// Parser resolves a date and time from free text. *datetime.Calendar satisfies it.
type Parser interface {
	Parse(text, timezone string) models.ParseResult
}

type tier struct {
	source     string
	adjustment float64
	text       func(reply, message string, history []models.ChatExchange) string
}

var tiers = []tier{
	{SourceReply, 0.1, func(reply, _ string, _ []models.ChatExchange) string { return reply }},
	{SourceMessage, 0, func(_, message string, _ []models.ChatExchange) string { return message }},
	{SourceConversation, -0.1, conversationText},
}

type Extractor struct {
	parser Parser
}

func NewExtractor(p Parser) *Extractor {
	return &Extractor{parser: p}
}

// Extract tries the generated reply, then the user message, then the whole
// conversation, and returns the first successful parse with its confidence
// adjusted for the source. Success is false when every source fails.
func (e *Extractor) Extract(reply, userMessage string, history []models.ChatExchange, timezone string) models.AppointmentCandidate {
	for _, t := range tiers {
		text := t.text(reply, userMessage, history)
		if strings.TrimSpace(text) == "" {
			continue
		}
		res := e.parser.Parse(text, timezone)
		if !res.Success || res.StartTime == nil || res.EndTime == nil {
			continue
		}
		return models.AppointmentCandidate{
			Success:    true,
			StartTime:  res.StartTime.FullDateTime,
			EndTime:    res.EndTime.FullDateTime,
			Confidence: adjust(res.StartTime.Confidence, t.adjustment),
			Source:     t.source,
		}
	}
	return models.AppointmentCandidate{Success: false}
}

// conversationText joins every prior exchange, the current message and the
// reply, oldest first.
func conversationText(reply, message string, history []models.ChatExchange) string {
	parts := make([]string, 0, len(history)+2)
	for _, h := range history {
		parts = append(parts, h.Message+" "+h.Response)
	}
	parts = append(parts, message, reply)
	return strings.Join(parts, " ")
}

// adjust applies a source bias, clamped to [0,1] and rounded to two decimals
func adjust(confidence, delta float64) float64 {
	c := math.Max(0, math.Min(1, confidence+delta))
	return math.Round(c*100) / 100
}
