package classifier

import (
	"strings"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

// rule maps a set of trigger phrases to a result. Tables of rules are
// evaluated in order and the first rule with any phrase present wins.
type rule[T any] struct {
	result  T
	phrases []string
}

func (r rule[T]) matches(text string) bool {
	return containsAny(text, r.phrases)
}

func firstMatch[T any](text string, rules []rule[T], fallback T) T {
	for _, r := range rules {
		if r.matches(text) {
			return r.result
		}
	}
	return fallback
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// decision_help sits above how_to_guide, so "should i ... how do i" is a decision.
var intentRules = []rule[models.Intent]{
	{models.IntentDecisionHelp, []string{"why", "should i"}},
	{models.IntentHowToGuide, []string{"how to", "how do"}},
	{models.IntentTroubleshooting, []string{"problem", "broken", "not working"}},
	{models.IntentPricingInquiry, []string{"cost", "price", "budget"}},
	{models.IntentRecommendationRequest, []string{"recommend", "best", "suggest"}},
}

var categoryRules = []rule[models.Category]{
	{models.CategoryKitchen, []string{"kitchen", "cabinet", "appliance", "countertop", "cooking"}},
	{models.CategoryBathroom, []string{"bathroom", "toilet", "shower", "bathtub", "sink", "plumbing"}},
	{models.CategoryElectrical, []string{"electrical", "wiring", "outlet", "switch", "power", "electricity"}},
	{models.CategoryHVAC, []string{"heating", "cooling", "hvac", "furnace", "air conditioning", "temperature"}},
	{models.CategoryFlooring, []string{"floor", "carpet", "hardwood", "tile", "laminate"}},
	{models.CategoryExterior, []string{"roof", "siding", "exterior", "deck", "patio", "landscaping"}},
	{models.CategorySafety, []string{"safety", "danger", "hazard", "emergency", "code", "permit"}},
	{models.CategorySales, []string{"sell", "customer", "client", "objection", "close", "negotiate"}},
}

var urgencyRules = []rule[models.Urgency]{
	{models.UrgencyHigh, []string{"emergency", "urgent", "immediately", "asap", "danger", "leak", "smoke", "fire"}},
	{models.UrgencyMedium, []string{"soon", "quickly", "problem", "broken", "not working"}},
}

var complexityRules = []rule[models.Complexity]{
	{models.ComplexityComplex, []string{"renovate", "remodel", "install", "replace", "upgrade", "system"}},
	{models.ComplexityModerate, []string{"repair", "fix", "improve", "update"}},
}

// negative is checked first: a message carrying both vocabularies reads as negative.
var sentimentRules = []rule[models.Sentiment]{
	{models.SentimentNegative, []string{"bad", "terrible", "awful", "hate", "frustrated", "angry", "broken"}},
	{models.SentimentPositive, []string{"good", "great", "excellent", "perfect", "love", "amazing"}},
}
