package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/benjiemalinao87/myknowledgebase/internal/datetime"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/benjiemalinao87/myknowledgebase/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testPersona() models.Persona {
	return models.Persona{
		ID:                 "home-improvement-expert",
		Name:               "Home Improvement Expert",
		Role:               "Senior Home Improvement Consultant",
		Experience:         "15+ years in residential renovation",
		PrimaryGoal:        "Help homeowners complete projects safely",
		CommunicationStyle: "Friendly and practical",
		Responsibilities:   []string{"Answer project questions"},
		Skills: []models.Skill{
			{Name: "Project Planning", Description: "Scope a project", Steps: []string{"Measure", "Estimate"}},
			{Name: "Safety Review", Description: "Spot hazards", Steps: []string{}},
		},
		Constraints:       []string{"Never guess at electrical code"},
		ExpertiseAreas:    []string{"Kitchens", "Bathrooms"},
		PersonalityTraits: []string{"Patient", "Direct"},
		SuccessMetrics:    []string{"Projects finished"},
		ContextAwareness:  []string{"Local permit rules"},
	}
}

func testContext() datetime.Context {
	return datetime.BuildContext(time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC), "UTC", datetime.DefaultBusinessHours)
}

func TestBuild_SectionOrder(t *testing.T) {
	out := Build(testPersona(), testContext(), []models.KnowledgeSnippet{{Title: "Grout", Content: "Seal it"}})

	order := []string{
		"# PERSONA: Home Improvement Expert",
		"## PRIMARY MISSION",
		"## PERSONALITY TRAITS & COMMUNICATION STYLE",
		"## SUCCESS METRICS & GOALS",
		"## RESPONSIBILITIES & DUTIES",
		"## AREAS OF EXPERTISE",
		"## CONTEXT AWARENESS",
		"## PROFESSIONAL SKILLS & TECHNIQUES",
		"## DATE & TIME AWARENESS",
		"## KNOWLEDGE BASE CONTEXT",
		"## CONSTRAINTS & BOUNDARIES",
		"## EXECUTION INSTRUCTIONS",
	}
	last := -1
	for _, heading := range order {
		idx := strings.Index(out, heading)
		require.NotEqual(t, -1, idx, heading)
		assert.Greater(t, idx, last, heading)
		last = idx
	}

	assert.Contains(t, out, "You are Home Improvement Expert, a Senior Home Improvement Consultant with 15+ years in residential renovation.\n")
	assert.Contains(t, out, "**Core Traits:** Patient, Direct\n")
	assert.Contains(t, out, "### 1. Project Planning\n**Description:** Scope a project\n**Process:**\n   1. Measure\n   2. Estimate\n")
	assert.Contains(t, out, "### 2. Safety Review\n")
	assert.Contains(t, out, "- Grout: Seal it...\n")
	assert.Contains(t, out, "1. **ALWAYS stay in character as Home Improvement Expert**")
	assert.Contains(t, out, "10. **MAINTAIN CONSISTENCY**")
}

func TestBuild_NoKnowledgeBlockWithoutSnippets(t *testing.T) {
	out := Build(testPersona(), testContext(), nil)
	assert.NotContains(t, out, "KNOWLEDGE BASE CONTEXT")

	out = Build(testPersona(), testContext(), []models.KnowledgeSnippet{})
	assert.NotContains(t, out, "KNOWLEDGE BASE CONTEXT")
}

func TestBuild_TruncatesSnippets(t *testing.T) {
	long := strings.Repeat("é", SnippetBudget+50)
	out := Build(testPersona(), testContext(), []models.KnowledgeSnippet{{Title: "Long", Content: long}})

	assert.Contains(t, out, "- Long: "+strings.Repeat("é", SnippetBudget)+"...\n")
	assert.NotContains(t, out, strings.Repeat("é", SnippetBudget+1))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "...", Excerpt("", 5))
	assert.Equal(t, "abc...", Excerpt("abc", 5))
	assert.Equal(t, "abcde...", Excerpt("abcdefgh", 5))
}

// Identical inputs always render byte-identical prompts.
func TestBuildIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := testPersona()
		p.Name = rapid.String().Draw(t, "name")
		p.ExpertiseAreas = rapid.SliceOf(rapid.String()).Draw(t, "expertise")
		titles := rapid.SliceOfN(rapid.String(), 0, 4).Draw(t, "titles")
		snippets := make([]models.KnowledgeSnippet, 0, len(titles))
		for _, title := range titles {
			snippets = append(snippets, models.KnowledgeSnippet{Title: title, Content: rapid.String().Draw(t, "content")})
		}
		dt := testContext()

		if Build(p, dt, snippets) != Build(p, dt, snippets) {
			t.Fatal("build output differs between identical calls")
		}
	})
}

func TestGuidance_Emergency(t *testing.T) {
	ctx := models.MessageContext{
		Intent:          models.IntentHowToGuide,
		Category:        models.CategoryBathroom,
		Urgency:         models.UrgencyHigh,
		Complexity:      models.ComplexityModerate,
		Sentiment:       models.SentimentNegative,
		SuggestedSkills: []string{"Safety Review"},
	}
	out := Guidance(ctx, planner.Plan(ctx))

	assert.Contains(t, out, "- **Intent**: how_to_guide\n")
	assert.Contains(t, out, "**EMERGENCY RESPONSE PROTOCOL**\n1. Address immediate safety concerns first\n")
	assert.Contains(t, out, "**Response type:** emergency\n")
	assert.Contains(t, out, "1. Immediate Safety Actions (warning)\n")
	assert.Contains(t, out, "**Call to action:** "+planner.EmergencyCallToAction)
	assert.Contains(t, out, "Focus on these relevant skills:\n- Safety Review\n")
	assert.Contains(t, out, "**Tone:** Empathetic and solution-focused\n")
}

func TestGuidance_Routine(t *testing.T) {
	ctx := models.MessageContext{
		Intent:          models.IntentPricingInquiry,
		Category:        models.CategoryKitchen,
		Urgency:         models.UrgencyLow,
		Complexity:      models.ComplexitySimple,
		Sentiment:       models.SentimentPositive,
		SuggestedSkills: []string{},
	}
	out := Guidance(ctx, planner.Plan(ctx))

	assert.NotContains(t, out, "EMERGENCY")
	assert.NotContains(t, out, "Call to action")
	assert.Contains(t, out, "**Response type:** structured\n")
	assert.Contains(t, out, "2. Price Ranges (recommendation)\n")
	assert.Contains(t, out, "Apply any relevant skills from your expertise\n")
	assert.Contains(t, out, "- What's your target budget range?\n")
	assert.Contains(t, out, "**Tone:** Enthusiastic and encouraging\n")
}
