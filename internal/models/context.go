package models

type Intent string

const (
	IntentGeneralInquiry        Intent = "general_inquiry"
	IntentHowToGuide            Intent = "how_to_guide"
	IntentDecisionHelp          Intent = "decision_help"
	IntentTroubleshooting       Intent = "troubleshooting"
	IntentPricingInquiry        Intent = "pricing_inquiry"
	IntentRecommendationRequest Intent = "recommendation_request"
)

type Category string

const (
	CategoryKitchen    Category = "kitchen"
	CategoryBathroom   Category = "bathroom"
	CategoryElectrical Category = "electrical"
	CategoryHVAC       Category = "hvac"
	CategoryFlooring   Category = "flooring"
	CategoryExterior   Category = "exterior"
	CategorySafety     Category = "safety"
	CategorySales      Category = "sales"
	CategoryGeneral    Category = "general"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// MessageContext is the rule-based classification of one inbound message
type MessageContext struct {
	Intent                  Intent     `json:"intent"`
	Category                Category   `json:"category"`
	Urgency                 Urgency    `json:"urgency"`
	Complexity              Complexity `json:"complexity"`
	RequiresPersonalization bool       `json:"requires_personalization"`
	SuggestedSkills         []string   `json:"suggested_skills"`
	Keywords                []string   `json:"keywords"`
	Sentiment               Sentiment  `json:"sentiment"`
}

type ResponseType string

const (
	ResponseStructured     ResponseType = "structured"
	ResponseConversational ResponseType = "conversational"
	ResponseEmergency      ResponseType = "emergency"
)

type SectionType string

const (
	SectionAnalysis       SectionType = "analysis"
	SectionRecommendation SectionType = "recommendation"
	SectionSteps          SectionType = "steps"
	SectionWarning        SectionType = "warning"
	SectionExamples       SectionType = "examples"
)

// ResponseSection is one planned block of the generated reply
type ResponseSection struct {
	Type     SectionType `json:"type"`
	Title    string      `json:"title"`
	Priority int         `json:"priority"`
}

// ResponseStructure is the output-shape plan derived from a MessageContext
type ResponseStructure struct {
	ResponseType      ResponseType      `json:"response_type"`
	Sections          []ResponseSection `json:"sections"`
	CallToAction      string            `json:"call_to_action,omitempty"`
	FollowUpQuestions []string          `json:"follow_up_questions"`
}
