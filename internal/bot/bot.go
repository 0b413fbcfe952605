package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/benjiemalinao87/myknowledgebase/internal/assistant"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

// Assistant is the part of assistant.Service the bot drives
type Assistant interface {
	Respond(ctx context.Context, req assistant.Request) (*assistant.Response, error)
	Personas(ctx context.Context) ([]models.Persona, error)
	SelectPersona(ctx context.Context, userID, personaID string) (models.Persona, error)
	ResetSession(ctx context.Context, userID string) error
	History(ctx context.Context, userID string) ([]*models.ChatExchange, error)
	Appointments(ctx context.Context, userID string) ([]*models.Appointment, error)
}

type Bot struct {
	api       *tgbotapi.BotAPI
	assistant Assistant
	logger    *zap.Logger
}

func New(token string, assistant Assistant, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:       api,
		assistant: assistant,
		logger:    logger,
	}, nil
}

// Start polls for updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func userID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	content := message.Text
	if message.Caption != "" {
		content = message.Caption
	}
	if strings.TrimSpace(content) == "" {
		b.sendMessage(message.Chat.ID, "Please send me your question as text.")
		return
	}

	resp, err := b.assistant.Respond(ctx, assistant.Request{
		UserID:    userID(message.Chat.ID),
		SessionID: strconv.Itoa(message.MessageID),
		Message:   content,
	})
	if err != nil {
		b.logger.Error("Failed to answer message",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		if errors.Is(err, assistant.ErrNoPersona) {
			b.sendErrorMessage(message.Chat.ID, "No personas are configured yet.")
			return
		}
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't answer that. Please try again.")
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, formatReply(resp))
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}

	if len(resp.Calendar) > 0 {
		doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
			Name:  "appointment.ics",
			Bytes: resp.Calendar,
		})
		doc.Caption = "Add this appointment to your calendar"
		if _, err := b.api.Send(doc); err != nil {
			b.logger.Error("Failed to send calendar file",
				zap.Error(err),
				zap.Int64("chat_id", message.Chat.ID))
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "help":
		b.sendMessage(message.Chat.ID, helpText)
	case "personas":
		b.handlePersonas(ctx, message)
	case "persona":
		b.handleSelectPersona(ctx, message)
	case "history":
		b.handleHistory(ctx, message)
	case "appointments":
		b.handleAppointments(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

const helpText = `Available commands:
/start - Start over with the default persona
/help - Show this help message
/personas - List the available personas
/persona <id> - Talk to a specific persona
/history - Show your recent questions
/appointments - Show your booked appointments

Ask anything about your home project. Mention a day and time to book an appointment.`

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	if err := b.assistant.ResetSession(ctx, userID(message.Chat.ID)); err != nil {
		b.logger.Warn("Failed to reset session",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
	}

	welcome := `Welcome! 🏠
I'm your home improvement assistant. Ask me how to fix, build or plan something, or book an appointment.

Use /personas to see who you can talk to and /help for all commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handlePersonas(ctx context.Context, message *tgbotapi.Message) {
	personas, err := b.assistant.Personas(ctx)
	if err != nil {
		b.logger.Error("Failed to list personas",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, failed to retrieve personas. Please try again later.")
		return
	}
	if len(personas) == 0 {
		b.sendMessage(message.Chat.ID, "No personas are configured yet.")
		return
	}
	b.sendMarkdown(message.Chat.ID, formatPersonas(personas))
}

func (b *Bot) handleSelectPersona(ctx context.Context, message *tgbotapi.Message) {
	id := strings.TrimSpace(message.CommandArguments())
	if id == "" {
		b.sendMessage(message.Chat.ID, "Usage: /persona <id>. Use /personas to see the ids.")
		return
	}

	p, err := b.assistant.SelectPersona(ctx, userID(message.Chat.ID), id)
	if err != nil {
		b.logger.Warn("Failed to select persona",
			zap.Error(err),
			zap.String("persona", id),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, fmt.Sprintf("I don't know a persona called %q.", id))
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf("You're now talking to %s, %s.", p.Name, p.Role))
}

func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	exchanges, err := b.assistant.History(ctx, userID(message.Chat.ID))
	if err != nil {
		b.logger.Error("Failed to get history",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't retrieve your history.")
		return
	}
	if len(exchanges) == 0 {
		b.sendMessage(message.Chat.ID, "You don't have any history yet.")
		return
	}
	b.sendMarkdown(message.Chat.ID, formatHistory(exchanges))
}

func (b *Bot) handleAppointments(ctx context.Context, message *tgbotapi.Message) {
	appointments, err := b.assistant.Appointments(ctx, userID(message.Chat.ID))
	if err != nil {
		b.logger.Error("Failed to get appointments",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't retrieve your appointments.")
		return
	}
	if len(appointments) == 0 {
		b.sendMessage(message.Chat.ID, "You don't have any appointments yet.")
		return
	}
	b.sendMarkdown(message.Chat.ID, formatAppointments(appointments))
}

// formatReply appends a footer naming the persona and how the message was read
func formatReply(resp *assistant.Response) string {
	var b strings.Builder
	b.WriteString(resp.Answer)
	fmt.Fprintf(&b, "\n\n%s | %s | %s urgency", resp.Persona.Name, resp.Context.Intent, resp.Context.Urgency)
	if a := resp.Appointment; a != nil {
		fmt.Fprintf(&b, "\n📅 Booked %s to %s (%s)", a.StartTime, a.EndTime, a.Timezone)
		for _, note := range a.Notes {
			fmt.Fprintf(&b, "\n⚠️ %s", note)
		}
	}
	return b.String()
}

func formatPersonas(personas []models.Persona) string {
	var b strings.Builder
	b.WriteString("*Available personas:*\n\n")
	for _, p := range personas {
		fmt.Fprintf(&b, "*%s*\n_%s_\n%s\n\n", escapeMarkdown(p.Name), escapeMarkdown(p.Role), escapeMarkdown("/persona "+p.ID))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatHistory(exchanges []*models.ChatExchange) string {
	var b strings.Builder
	b.WriteString("*Your recent questions:*\n\n")
	for _, ex := range exchanges {
		if ex.Context != nil {
			fmt.Fprintf(&b, "*%s*\n", escapeMarkdown("#"+string(ex.Context.Category)))
		}
		fmt.Fprintf(&b, "_%s_\n%s\n\n", escapeMarkdown(ex.Message), escapeMarkdown(ex.Response))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatAppointments(appointments []*models.Appointment) string {
	var b strings.Builder
	b.WriteString("*Your appointments:*\n\n")
	for _, a := range appointments {
		fmt.Fprintf(&b, "📅 %s\n", escapeMarkdown(fmt.Sprintf("%s to %s (%s)", a.StartTime, a.EndTime, a.Timezone)))
		for _, note := range a.Notes {
			fmt.Fprintf(&b, "⚠️ %s\n", escapeMarkdown(note))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// escapeMarkdown escapes the characters MarkdownV2 reserves
func escapeMarkdown(text string) string {
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
