package prompt

import (
	"fmt"
	"strings"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

var emergencyProtocol = []string{
	"Address immediate safety concerns first",
	"Provide step-by-step emergency actions",
	"Clearly state when to call professionals",
	"Include emergency contact guidance",
}

// Guidance renders the per-turn response requirements that follow the
// system prompt: the classification of the message and the planned shape of
// the reply.
func Guidance(ctx models.MessageContext, plan models.ResponseStructure) string {
	var b strings.Builder

	b.WriteString("## CURRENT CONTEXT ANALYSIS\n")
	fmt.Fprintf(&b, "- **Intent**: %s\n", ctx.Intent)
	fmt.Fprintf(&b, "- **Category**: %s\n", ctx.Category)
	fmt.Fprintf(&b, "- **Urgency**: %s\n", ctx.Urgency)
	fmt.Fprintf(&b, "- **Complexity**: %s\n", ctx.Complexity)
	fmt.Fprintf(&b, "- **User Sentiment**: %s\n\n", ctx.Sentiment)

	b.WriteString("## RESPONSE REQUIREMENTS\n")
	if ctx.Urgency == models.UrgencyHigh {
		b.WriteString("Provide an URGENT response.\n\n")
		b.WriteString("**EMERGENCY RESPONSE PROTOCOL**\n")
		for i, step := range emergencyProtocol {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("Provide a comprehensive response.\n\n")
	}

	fmt.Fprintf(&b, "**Response type:** %s\n", plan.ResponseType)
	b.WriteString("**Sections, in order:**\n")
	for _, s := range plan.Sections {
		fmt.Fprintf(&b, "%d. %s (%s)\n", s.Priority, s.Title, s.Type)
	}
	if plan.CallToAction != "" {
		fmt.Fprintf(&b, "**Call to action:** %s\n", plan.CallToAction)
	}
	b.WriteString("\n")

	b.WriteString("## AVAILABLE SKILLS TO APPLY\n")
	if len(ctx.SuggestedSkills) > 0 {
		b.WriteString("Focus on these relevant skills:\n")
		writeBullets(&b, ctx.SuggestedSkills)
	} else {
		b.WriteString("Apply any relevant skills from your expertise\n\n")
	}

	if len(plan.FollowUpQuestions) > 0 {
		b.WriteString("## FOLLOW-UP QUESTIONS\n")
		b.WriteString("Where it helps, close with one of:\n")
		writeBullets(&b, plan.FollowUpQuestions)
	}

	fmt.Fprintf(&b, "**Tone:** %s\n", tone(ctx.Sentiment))

	return b.String()
}

func tone(s models.Sentiment) string {
	switch s {
	case models.SentimentNegative:
		return "Empathetic and solution-focused"
	case models.SentimentPositive:
		return "Enthusiastic and encouraging"
	}
	return "Professional and helpful"
}
