package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benjiemalinao87/myknowledgebase/internal/assistant"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

var _ Assistant = (*assistant.Service)(nil)

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `\#kitchen\_remodel`, escapeMarkdown("#kitchen_remodel"))
	assert.Equal(t, `2025\-01\-16 \(PST\)\.`, escapeMarkdown("2025-01-16 (PST)."))
	assert.Equal(t, `a\\b`, escapeMarkdown(`a\b`))
}

func TestUserID(t *testing.T) {
	assert.Equal(t, "-100123", userID(-100123))
}

func TestFormatReply(t *testing.T) {
	resp := &assistant.Response{
		Answer:  "Tomorrow at 2pm works.",
		Persona: assistant.PersonaSummary{Name: "Appointment Setter"},
		Context: models.MessageContext{Intent: models.IntentGeneralInquiry, Urgency: models.UrgencyLow},
	}
	assert.Equal(t, "Tomorrow at 2pm works.\n\nAppointment Setter | general_inquiry | low urgency", formatReply(resp))

	resp.Appointment = &models.Appointment{
		StartTime: "2025-01-16 19:00:00",
		EndTime:   "2025-01-16 20:00:00",
		Timezone:  "America/Los_Angeles",
		Notes:     []string{"outside business hours (9:00 AM - 5:00 PM)"},
	}
	out := formatReply(resp)
	assert.Contains(t, out, "📅 Booked 2025-01-16 19:00:00 to 2025-01-16 20:00:00 (America/Los_Angeles)")
	assert.True(t, strings.HasSuffix(out, "⚠️ outside business hours (9:00 AM - 5:00 PM)"))
}

func TestFormatPersonas(t *testing.T) {
	out := formatPersonas([]models.Persona{
		{ID: "technical-support", Name: "Tech Support", Role: "Support Engineer"},
	})
	assert.Equal(t, "*Available personas:*\n\n*Tech Support*\n_Support Engineer_\n/persona technical\\-support", out)
}

func TestFormatHistory(t *testing.T) {
	out := formatHistory([]*models.ChatExchange{
		{Message: "How do I tile?", Response: "Start at the center.", Context: &models.MessageContext{Category: models.CategoryFlooring}},
		{Message: "Thanks!", Response: "Any time."},
	})
	assert.Equal(t, "*Your recent questions:*\n\n*\\#flooring*\n_How do I tile?_\nStart at the center\\.\n\n_Thanks\\!_\nAny time\\.", out)
}

func TestFormatAppointments(t *testing.T) {
	out := formatAppointments([]*models.Appointment{
		{StartTime: "2025-01-16 14:00:00", EndTime: "2025-01-16 15:00:00", Timezone: "UTC"},
	})
	assert.Equal(t, "*Your appointments:*\n\n📅 2025\\-01\\-16 14:00:00 to 2025\\-01\\-16 15:00:00 \\(UTC\\)", out)
}
