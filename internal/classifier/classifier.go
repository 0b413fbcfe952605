// Package classifier assigns intent, category, urgency, complexity and
// sentiment to a user message using fixed keyword tables.
package classifier

import (
	"regexp"
	"strings"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

// minKeywordLength is exclusive: only tokens longer than this are kept
const minKeywordLength = 3

var nonWord = regexp.MustCompile(`[^\w]`)

// Analyze classifies a message for the given persona. It is pure and total.
func Analyze(message string, persona models.Persona) models.MessageContext {
	lower := strings.ToLower(message)

	intent := firstMatch(lower, intentRules, models.IntentGeneralInquiry)
	urgency := firstMatch(lower, urgencyRules, models.UrgencyLow)
	complexity := firstMatch(lower, complexityRules, models.ComplexitySimple)

	return models.MessageContext{
		Intent:                  intent,
		Category:                firstMatch(lower, categoryRules, models.CategoryGeneral),
		Urgency:                 urgency,
		Complexity:              complexity,
		RequiresPersonalization: complexity != models.ComplexitySimple || urgency == models.UrgencyHigh,
		SuggestedSkills:         SuggestSkills(lower, intent, persona.Skills),
		Keywords:                Keywords(message),
		Sentiment:               firstMatch(lower, sentimentRules, models.SentimentNeutral),
	}
}

// SuggestSkills returns the names of skills whose first word appears in the
// lower-cased message or in the intent label.
func SuggestSkills(lowerMessage string, intent models.Intent, skills []models.Skill) []string {
	suggested := []string{}
	for _, s := range skills {
		fields := strings.Fields(strings.ToLower(s.Name))
		if len(fields) == 0 {
			continue
		}
		first := fields[0]
		if strings.Contains(lowerMessage, first) || strings.Contains(string(intent), first) {
			suggested = append(suggested, s.Name)
		}
	}
	return suggested
}

// Keywords lower-cases the message, strips non-word characters from each
// whitespace token and keeps tokens longer than three characters, in order.
func Keywords(message string) []string {
	keywords := []string{}
	for _, tok := range strings.Fields(message) {
		word := nonWord.ReplaceAllString(strings.ToLower(tok), "")
		if len(word) > minKeywordLength {
			keywords = append(keywords, word)
		}
	}
	return keywords
}
