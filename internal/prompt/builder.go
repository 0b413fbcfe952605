// Package prompt renders the persona-conditioned instructions sent to the
// generation backend. Output is a pure function of its inputs.
package prompt

import (
	"fmt"
	"strings"

	"github.com/benjiemalinao87/myknowledgebase/internal/datetime"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

// SnippetBudget is the number of characters kept from each knowledge excerpt
const SnippetBudget = 200

var executionChecklist = []string{
	"**ALWAYS stay in character as %s** - embody their personality traits and communication style",
	"**APPLY YOUR SKILLS SYSTEMATICALLY** - Use your professional techniques and processes for every response",
	"**LEVERAGE CONTEXT AWARENESS** - Consider market conditions, industry trends, and situational factors",
	"**MEASURE BY SUCCESS METRICS** - Aim for outcomes that align with your success criteria",
	"**RESPECT ALL CONSTRAINTS** - Never violate your professional boundaries or limitations",
	"**USE CONVERSATION HISTORY** - Reference previous interactions for continuity and deeper understanding",
	"**BE RESULTS-ORIENTED** - Focus on actionable, valuable guidance that drives toward your primary mission",
	"**DEMONSTRATE EXPERTISE** - Show deep knowledge in your areas of specialization",
	"**ADAPT TO CONTEXT** - Adjust your approach based on the specific situation and context clues",
	"**MAINTAIN CONSISTENCY** - Ensure every response reflects your personality, expertise, and professional standards",
}

// Build renders the system prompt for a persona. The knowledge block is
// omitted when snippets is empty.
func Build(p models.Persona, dt datetime.Context, snippets []models.KnowledgeSnippet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# PERSONA: %s\n", p.Name)
	fmt.Fprintf(&b, "You are %s, a %s with %s.\n\n", p.Name, p.Role, p.Experience)

	b.WriteString("## PRIMARY MISSION\n")
	b.WriteString(p.PrimaryGoal)
	b.WriteString("\n\n")

	b.WriteString("## PERSONALITY TRAITS & COMMUNICATION STYLE\n")
	fmt.Fprintf(&b, "**Core Traits:** %s\n", strings.Join(p.PersonalityTraits, ", "))
	fmt.Fprintf(&b, "**Communication Style:** %s\n\n", p.CommunicationStyle)

	b.WriteString("## SUCCESS METRICS & GOALS\n")
	b.WriteString("You measure success by:\n")
	writeBullets(&b, p.SuccessMetrics)

	b.WriteString("## RESPONSIBILITIES & DUTIES\n")
	writeBullets(&b, p.Responsibilities)

	b.WriteString("## AREAS OF EXPERTISE\n")
	writeBullets(&b, p.ExpertiseAreas)

	b.WriteString("## CONTEXT AWARENESS\n")
	b.WriteString("You are aware of and consider:\n")
	writeBullets(&b, p.ContextAwareness)

	b.WriteString("## PROFESSIONAL SKILLS & TECHNIQUES\n")
	for i, skill := range p.Skills {
		fmt.Fprintf(&b, "### %d. %s\n", i+1, skill.Name)
		fmt.Fprintf(&b, "**Description:** %s\n", skill.Description)
		b.WriteString("**Process:**\n")
		for j, step := range skill.Steps {
			fmt.Fprintf(&b, "   %d. %s\n", j+1, step)
		}
		b.WriteString("\n")
	}
	if len(p.Skills) == 0 {
		b.WriteString("\n")
	}

	b.WriteString(datetime.Instructions(dt))
	b.WriteString("\n")

	if len(snippets) > 0 {
		b.WriteString("## KNOWLEDGE BASE CONTEXT\n")
		for _, s := range snippets {
			fmt.Fprintf(&b, "- %s: %s\n", s.Title, Excerpt(s.Content, SnippetBudget))
		}
		b.WriteString("Use this knowledge when relevant to provide accurate, specific answers that align with your persona traits and goals.\n\n")
	}

	b.WriteString("## CONSTRAINTS & BOUNDARIES\n")
	writeBullets(&b, p.Constraints)

	b.WriteString("## EXECUTION INSTRUCTIONS\n")
	for i, item := range executionChecklist {
		if i == 0 {
			item = fmt.Sprintf(item, p.Name)
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\nIMPORTANT: Every response should demonstrate your expertise, personality traits, context awareness, and systematic application of your professional skills to achieve your success metrics while respecting all constraints.\n")

	return b.String()
}

// Excerpt keeps the first limit characters of s and always appends "..."
func Excerpt(s string, limit int) string {
	r := []rune(s)
	if len(r) > limit {
		r = r[:limit]
	}
	return string(r) + "..."
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
