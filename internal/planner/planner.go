// Package planner derives the expected shape of a reply from its MessageContext.
package planner

import "github.com/benjiemalinao87/myknowledgebase/internal/models"

const maxFollowUps = 3

const EmergencyCallToAction = "If this is a true emergency, stop and call emergency services or relevant professionals immediately."

var emergencySections = []models.ResponseSection{
	{Type: models.SectionWarning, Title: "Immediate Safety Actions", Priority: 1},
	{Type: models.SectionSteps, Title: "Emergency Steps", Priority: 2},
	{Type: models.SectionRecommendation, Title: "When to Call Professionals", Priority: 3},
}

var sectionTemplates = map[models.Intent][]models.ResponseSection{
	models.IntentHowToGuide: {
		{Type: models.SectionAnalysis, Title: "Project Overview", Priority: 1},
		{Type: models.SectionSteps, Title: "Step-by-Step Instructions", Priority: 2},
		{Type: models.SectionWarning, Title: "Safety Considerations", Priority: 3},
		{Type: models.SectionExamples, Title: "Pro Tips", Priority: 4},
	},
	models.IntentPricingInquiry: {
		{Type: models.SectionAnalysis, Title: "Cost Factors", Priority: 1},
		{Type: models.SectionRecommendation, Title: "Price Ranges", Priority: 2},
		{Type: models.SectionExamples, Title: "Value & Savings Tips", Priority: 3},
	},
	models.IntentTroubleshooting: {
		{Type: models.SectionAnalysis, Title: "Problem Diagnosis", Priority: 1},
		{Type: models.SectionSteps, Title: "Troubleshooting Steps", Priority: 2},
		{Type: models.SectionRecommendation, Title: "Solution Options", Priority: 3},
	},
}

var defaultSections = []models.ResponseSection{
	{Type: models.SectionAnalysis, Title: "Assessment", Priority: 1},
	{Type: models.SectionRecommendation, Title: "Recommendations", Priority: 2},
	{Type: models.SectionSteps, Title: "Next Steps", Priority: 3},
}

var questionBank = map[models.Intent][]string{
	models.IntentHowToGuide: {
		"What's your current skill level with this type of project?",
		"Do you have all the necessary tools and materials?",
		"Would you like specific product recommendations?",
	},
	models.IntentPricingInquiry: {
		"What's your target budget range?",
		"Are you considering DIY or hiring professionals?",
		"Do you need financing options or payment plans?",
	},
	models.IntentTroubleshooting: {
		"How long has this problem been occurring?",
		"Have you tried any solutions already?",
		"Is this affecting other systems in your home?",
	},
}

var defaultQuestions = []string{
	"Would you like more specific guidance for your situation?",
	"Do you have any other related questions?",
	"What's your timeline for this project?",
}

// Plan selects the reply structure. High urgency always yields the emergency
// template; otherwise the template is chosen by intent.
func Plan(ctx models.MessageContext) models.ResponseStructure {
	followUps := FollowUpQuestions(ctx.Intent)

	if ctx.Urgency == models.UrgencyHigh {
		return models.ResponseStructure{
			ResponseType:      models.ResponseEmergency,
			Sections:          cloneSections(emergencySections),
			CallToAction:      EmergencyCallToAction,
			FollowUpQuestions: followUps,
		}
	}

	sections, ok := sectionTemplates[ctx.Intent]
	if !ok {
		sections = defaultSections
	}

	responseType := models.ResponseConversational
	if ctx.Complexity == models.ComplexitySimple {
		responseType = models.ResponseStructured
	}

	return models.ResponseStructure{
		ResponseType:      responseType,
		Sections:          cloneSections(sections),
		FollowUpQuestions: followUps,
	}
}

// FollowUpQuestions returns up to three questions for the intent in declared order
func FollowUpQuestions(intent models.Intent) []string {
	bank, ok := questionBank[intent]
	if !ok {
		bank = defaultQuestions
	}
	n := len(bank)
	if n > maxFollowUps {
		n = maxFollowUps
	}
	out := make([]string, n)
	copy(out, bank[:n])
	return out
}

func cloneSections(s []models.ResponseSection) []models.ResponseSection {
	out := make([]models.ResponseSection, len(s))
	copy(out, s)
	return out
}
