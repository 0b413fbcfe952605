package planner

import (
	"testing"

	"github.com/benjiemalinao87/myknowledgebase/internal/classifier"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(s models.ResponseStructure) []string {
	out := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		out = append(out, sec.Title)
	}
	return out
}

func TestPlan_EmergencyOverridesIntent(t *testing.T) {
	ctx := classifier.Analyze("emergency, pipe is leaking, how do I fix it", models.Persona{})
	require.Equal(t, models.IntentHowToGuide, ctx.Intent)

	plan := Plan(ctx)

	assert.Equal(t, models.ResponseEmergency, plan.ResponseType)
	assert.Equal(t, []string{"Immediate Safety Actions", "Emergency Steps", "When to Call Professionals"}, titles(plan))
	assert.Equal(t, EmergencyCallToAction, plan.CallToAction)
	assert.LessOrEqual(t, len(plan.FollowUpQuestions), 3)
}

func TestPlan_ByIntent(t *testing.T) {
	tests := []struct {
		intent     models.Intent
		complexity models.Complexity
		wantType   models.ResponseType
		wantTitles []string
		wantFirstQ string
	}{
		{
			models.IntentHowToGuide, models.ComplexitySimple, models.ResponseStructured,
			[]string{"Project Overview", "Step-by-Step Instructions", "Safety Considerations", "Pro Tips"},
			"What's your current skill level with this type of project?",
		},
		{
			models.IntentPricingInquiry, models.ComplexityComplex, models.ResponseConversational,
			[]string{"Cost Factors", "Price Ranges", "Value & Savings Tips"},
			"What's your target budget range?",
		},
		{
			models.IntentTroubleshooting, models.ComplexityModerate, models.ResponseConversational,
			[]string{"Problem Diagnosis", "Troubleshooting Steps", "Solution Options"},
			"How long has this problem been occurring?",
		},
		{
			models.IntentRecommendationRequest, models.ComplexitySimple, models.ResponseStructured,
			[]string{"Assessment", "Recommendations", "Next Steps"},
			"Would you like more specific guidance for your situation?",
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			plan := Plan(models.MessageContext{Intent: tt.intent, Urgency: models.UrgencyLow, Complexity: tt.complexity})
			assert.Equal(t, tt.wantType, plan.ResponseType)
			assert.Equal(t, tt.wantTitles, titles(plan))
			assert.Empty(t, plan.CallToAction)
			require.Len(t, plan.FollowUpQuestions, 3)
			assert.Equal(t, tt.wantFirstQ, plan.FollowUpQuestions[0])
			for i, sec := range plan.Sections {
				assert.Equal(t, i+1, sec.Priority)
			}
		})
	}
}

func TestPlan_ResultsAreIndependent(t *testing.T) {
	a := Plan(models.MessageContext{Intent: models.IntentHowToGuide})
	a.Sections[0].Title = "changed"
	a.FollowUpQuestions[0] = "changed"

	b := Plan(models.MessageContext{Intent: models.IntentHowToGuide})
	assert.Equal(t, "Project Overview", b.Sections[0].Title)
	assert.NotEqual(t, "changed", b.FollowUpQuestions[0])
}
