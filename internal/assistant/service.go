// Package assistant runs one conversational turn: it resolves the persona,
// classifies the message, assembles the prompt, generates the reply and books
// any appointment the conversation settles on.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/benjiemalinao87/myknowledgebase/internal/appointment"
	"github.com/benjiemalinao87/myknowledgebase/internal/classifier"
	"github.com/benjiemalinao87/myknowledgebase/internal/datetime"
	"github.com/benjiemalinao87/myknowledgebase/internal/metrics"
	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"github.com/benjiemalinao87/myknowledgebase/internal/persona"
	"github.com/benjiemalinao87/myknowledgebase/internal/planner"
	"github.com/benjiemalinao87/myknowledgebase/internal/prompt"
	"github.com/benjiemalinao87/myknowledgebase/internal/storage"
)

var (
	ErrNoPersona    = errors.New("no personas available")
	ErrEmptyMessage = errors.New("message is empty")
)

// disabledAnswerLimit caps the canned reply used when generation is turned off
const disabledAnswerLimit = 160

var schedulingWords = []string{"appointment", "book", "schedule", "reschedule", "meet"}

type Options struct {
	Timezone        string
	BusinessHours   string
	BusinessStart   string
	BusinessEnd     string
	DefaultPersona  string
	HistoryLimit    int
	RememberHistory bool
	SMSMode         bool
	ResponseLength  int
	KnowledgeLimit  int
	UseAI           bool
}

type Request struct {
	UserID    string
	SessionID string
	// PersonaID overrides the user's session persona for this turn
	PersonaID    string
	Message      string
	KnowledgeIDs []string
	// Timezone overrides Options.Timezone for this turn
	Timezone string
}

type PersonaSummary struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	ContextAwareness []string `json:"context_awareness"`
}

type Response struct {
	Answer      string                      `json:"answer"`
	AIGenerated bool                        `json:"ai_generated"`
	Sources     []string                    `json:"sources"`
	Persona     PersonaSummary              `json:"persona"`
	Context     models.MessageContext       `json:"context"`
	Plan        models.ResponseStructure    `json:"plan"`
	Candidate   models.AppointmentCandidate `json:"appointment_candidate"`
	Appointment *models.Appointment         `json:"appointment,omitempty"`
	Calendar    []byte                      `json:"-"`
}

type Service struct {
	store     storage.Storage
	generator Generator
	calendar  *datetime.Calendar
	extractor *appointment.Extractor
	opts      Options
	logger    *zap.Logger
}

// NewService wires a Service. A nil generator answers every turn with the
// canned reply.
func NewService(store storage.Storage, generator Generator, calendar *datetime.Calendar, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timezone == "" {
		opts.Timezone = datetime.DefaultTimezone
	}
	if opts.BusinessHours == "" {
		opts.BusinessHours = datetime.DefaultBusinessHours
	}
	return &Service{
		store:     store,
		generator: generator,
		calendar:  calendar,
		extractor: appointment.NewExtractor(calendar),
		opts:      opts,
		logger:    logger,
	}
}

func (s *Service) Respond(ctx context.Context, req Request) (*Response, error) {
	started := time.Now()
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	record, err := s.resolvePersona(ctx, req)
	if err != nil {
		return nil, err
	}
	p := persona.Normalize(*record, s.logger)
	defer func() {
		metrics.ResponseDuration.WithLabelValues(p.ID).Observe(time.Since(started).Seconds())
	}()

	msgCtx := classifier.Analyze(message, p)
	metrics.MessagesClassified.WithLabelValues(string(msgCtx.Intent), string(msgCtx.Urgency)).Inc()
	plan := planner.Plan(msgCtx)

	items, err := SelectKnowledge(ctx, s.store, message, req.KnowledgeIDs, s.opts.KnowledgeLimit)
	if err != nil {
		s.logger.Warn("Knowledge lookup failed", zap.Error(err))
	}

	history := s.loadHistory(ctx, req.UserID)

	tz := req.Timezone
	if tz == "" {
		tz = s.opts.Timezone
	}
	dtCtx := s.calendar.Context(tz, s.opts.BusinessHours)

	answer, generated := s.answer(ctx, p, message, items, GenerationRequest{
		SystemPrompt: s.systemPrompt(p, dtCtx, items, msgCtx, plan),
		History:      history,
		Message:      message,
	})

	resp := &Response{
		Answer:      answer,
		AIGenerated: generated,
		Sources:     titles(items),
		Persona: PersonaSummary{
			ID:               p.ID,
			Name:             p.Name,
			Role:             p.Role,
			ContextAwareness: p.ContextAwareness,
		},
		Context: msgCtx,
		Plan:    plan,
	}

	resp.Candidate = s.extractor.Extract(answer, message, history, tz)
	source := resp.Candidate.Source
	if !resp.Candidate.Success {
		source = "none"
	}
	metrics.AppointmentExtractions.WithLabelValues(source).Inc()

	if resp.Candidate.Success && mentionsScheduling(message, answer) {
		s.book(ctx, req.UserID, p, message, tz, resp)
	}

	if req.UserID != "" && s.opts.RememberHistory {
		exchange := &models.ChatExchange{
			UserID:    req.UserID,
			PersonaID: p.ID,
			SessionID: req.SessionID,
			Message:   message,
			Response:  answer,
			Context:   &msgCtx,
		}
		if err := s.store.SaveExchange(ctx, exchange); err != nil {
			s.logger.Error("Failed to save exchange", zap.String("user_id", req.UserID), zap.Error(err))
		}
	}
	if req.UserID != "" {
		if err := s.store.TouchSession(ctx, req.UserID); err != nil {
			s.logger.Warn("Failed to touch session", zap.String("user_id", req.UserID), zap.Error(err))
		}
	}

	s.logger.Info("Turn answered",
		zap.String("user_id", req.UserID),
		zap.String("persona", p.ID),
		zap.String("intent", string(msgCtx.Intent)),
		zap.String("urgency", string(msgCtx.Urgency)),
		zap.Bool("ai_generated", generated),
		zap.Bool("appointment", resp.Appointment != nil))
	return resp, nil
}

// resolvePersona tries the requested persona, the user's session persona, the
// configured default and finally whichever persona the store lists first.
func (s *Service) resolvePersona(ctx context.Context, req Request) (*models.PersonaRecord, error) {
	candidates := []string{req.PersonaID}
	if req.UserID != "" {
		session, err := s.store.GetSession(ctx, req.UserID)
		switch {
		case err == nil:
			candidates = append(candidates, session.PersonaID)
		case !errors.Is(err, storage.ErrNotFound):
			s.logger.Warn("Failed to load session", zap.String("user_id", req.UserID), zap.Error(err))
		}
	}
	candidates = append(candidates, s.opts.DefaultPersona)

	for _, id := range candidates {
		if id == "" {
			continue
		}
		record, err := s.store.GetPersona(ctx, id)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to load persona %s: %w", id, err)
		}
		s.logger.Debug("Persona not found", zap.String("persona", id))
	}

	record, err := s.store.FirstPersona(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoPersona
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback persona: %w", err)
	}
	return record, nil
}

func (s *Service) loadHistory(ctx context.Context, userID string) []models.ChatExchange {
	if userID == "" || !s.opts.RememberHistory || s.opts.HistoryLimit == 0 {
		return nil
	}
	exchanges, err := s.store.RecentExchanges(ctx, userID, s.opts.HistoryLimit)
	if err != nil {
		s.logger.Warn("Failed to load history", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	history := make([]models.ChatExchange, 0, len(exchanges))
	for _, ex := range exchanges {
		history = append(history, *ex)
	}
	return history
}

func (s *Service) systemPrompt(p models.Persona, dt datetime.Context, items []*models.KnowledgeItem, msgCtx models.MessageContext, plan models.ResponseStructure) string {
	var b strings.Builder
	b.WriteString(prompt.Build(p, dt, snippets(items)))
	b.WriteString("\n\n")
	b.WriteString(prompt.Guidance(msgCtx, plan))
	if s.opts.SMSMode {
		fmt.Fprintf(&b, "\n\n## RESPONSE FORMAT\nReply in plain text of at most %d characters, suitable for SMS. No markdown, no lists.\n", s.opts.ResponseLength)
	}
	return b.String()
}

// answer returns the reply and whether it came from the generator
func (s *Service) answer(ctx context.Context, p models.Persona, message string, items []*models.KnowledgeItem, req GenerationRequest) (string, bool) {
	if !s.opts.UseAI || s.generator == nil {
		metrics.GenerationFailures.WithLabelValues("disabled").Inc()
		return disabledAnswer(p, message, items), false
	}

	text, err := s.generator.Generate(ctx, req)
	if err == nil {
		text = s.postProcess(text)
	}
	if err != nil || text == "" {
		reason := "error"
		if err == nil {
			reason = "empty"
		}
		metrics.GenerationFailures.WithLabelValues(reason).Inc()
		s.logger.Error("Generation failed, using fallback answer",
			zap.String("persona", p.ID),
			zap.String("reason", reason),
			zap.Error(err))
		return fallbackAnswer(p, message), false
	}
	return text, true
}

// postProcess trims the reply, drops a leading and a trailing quote character
// and applies the SMS length limit
func (s *Service) postProcess(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, `"`) || strings.HasPrefix(text, "'") {
		text = text[1:]
	}
	if strings.HasSuffix(text, `"`) || strings.HasSuffix(text, "'") {
		text = text[:len(text)-1]
	}
	text = strings.TrimSpace(text)
	if s.opts.SMSMode && s.opts.ResponseLength > 0 {
		text = truncateRunes(text, s.opts.ResponseLength)
	}
	return text
}

func fallbackAnswer(p models.Persona, message string) string {
	return fmt.Sprintf("I'm %s. I'm having trouble accessing my AI right now, but I'd be happy to help with your question: %q. Please try again.", p.Role, message)
}

func disabledAnswer(p models.Persona, message string, items []*models.KnowledgeItem) string {
	answer := fmt.Sprintf("Hi! I'm %s. To give you the best help with: %q, I'd need to use AI. Please enable AI mode for detailed assistance.", p.Role, message)
	if len(items) > 0 {
		answer += " I found some relevant info: " + items[0].Title
	}
	return truncateRunes(answer, disabledAnswerLimit)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func mentionsScheduling(texts ...string) bool {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, w := range schedulingWords {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}

func (s *Service) book(ctx context.Context, userID string, p models.Persona, message, tz string, resp *Response) {
	now := s.calendar.Now(tz)
	a := &models.Appointment{
		UserID:     userID,
		PersonaID:  p.ID,
		StartTime:  resp.Candidate.StartTime,
		EndTime:    resp.Candidate.EndTime,
		Timezone:   tz,
		Confidence: resp.Candidate.Confidence,
		Source:     resp.Candidate.Source,
		Notes:      s.appointmentNotes(resp.Candidate.StartTime, tz, now),
	}
	if err := s.store.SaveAppointment(ctx, a); err != nil {
		s.logger.Error("Failed to save appointment", zap.String("user_id", userID), zap.Error(err))
		return
	}
	metrics.AppointmentsBooked.Inc()
	resp.Appointment = a

	ics, err := appointment.RenderICS(*a, appointment.Event{
		Summary:     fmt.Sprintf("Appointment with %s", p.Name),
		Description: message,
	}, now)
	if err != nil {
		s.logger.Error("Failed to render calendar", zap.String("appointment_id", a.ID), zap.Error(err))
		return
	}
	resp.Calendar = ics
}

func (s *Service) appointmentNotes(start, tz string, now time.Time) []string {
	var notes []string
	if s.opts.BusinessStart != "" && s.opts.BusinessEnd != "" &&
		!datetime.WithinBusinessHours(start, s.opts.BusinessStart, s.opts.BusinessEnd) {
		notes = append(notes, fmt.Sprintf("outside business hours (%s)", s.opts.BusinessHours))
	}
	if !datetime.IsFuture(start, tz, now) {
		notes = append(notes, "start time is not in the future")
	}
	return notes
}

func titles(items []*models.KnowledgeItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Title)
	}
	return out
}

// Personas lists every stored persona in canonical form
func (s *Service) Personas(ctx context.Context) ([]models.Persona, error) {
	records, err := s.store.ListPersonas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	out := make([]models.Persona, 0, len(records))
	for _, r := range records {
		out = append(out, persona.Normalize(*r, s.logger))
	}
	return out, nil
}

// SelectPersona makes personaID the user's persona for later turns
func (s *Service) SelectPersona(ctx context.Context, userID, personaID string) (models.Persona, error) {
	record, err := s.store.GetPersona(ctx, personaID)
	if err != nil {
		return models.Persona{}, fmt.Errorf("failed to load persona %s: %w", personaID, err)
	}
	if err := s.store.SaveSession(ctx, userID, personaID); err != nil {
		return models.Persona{}, fmt.Errorf("failed to save session: %w", err)
	}
	return persona.Normalize(*record, s.logger), nil
}

// ResetSession forgets the user's persona choice
func (s *Service) ResetSession(ctx context.Context, userID string) error {
	return s.store.DeleteSession(ctx, userID)
}

func (s *Service) History(ctx context.Context, userID string) ([]*models.ChatExchange, error) {
	return s.store.RecentExchanges(ctx, userID, s.opts.HistoryLimit)
}

func (s *Service) Appointments(ctx context.Context, userID string) ([]*models.Appointment, error) {
	return s.store.ListAppointments(ctx, userID)
}
