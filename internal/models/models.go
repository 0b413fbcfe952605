package models

import "time"

// ChatExchange is one persisted user message with the assistant's reply
type ChatExchange struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	PersonaID string          `json:"persona_id"`
	SessionID string          `json:"session_id,omitempty"`
	Message   string          `json:"message"`
	Response  string          `json:"response"`
	Context   *MessageContext `json:"context,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Session tracks which persona a user is currently talking to
type Session struct {
	UserID     string    `json:"user_id"`
	PersonaID  string    `json:"persona_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// KnowledgeType is the intake channel of a knowledge item
type KnowledgeType string

const (
	KnowledgeText KnowledgeType = "text"
	KnowledgeLink KnowledgeType = "link"
	KnowledgeFile KnowledgeType = "file"
)

// KnowledgeItem is a record from the knowledge base
type KnowledgeItem struct {
	ID        string        `json:"id"`
	Type      KnowledgeType `json:"type"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	URL       string        `json:"url,omitempty"`
	FileType  string        `json:"file_type,omitempty"`
	Tags      []string      `json:"tags"`
	AddedAt   time.Time     `json:"added_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// KnowledgeSnippet is the excerpt of a knowledge item handed to the prompt builder
type KnowledgeSnippet struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Snippet returns the prompt excerpt for the item
func (k KnowledgeItem) Snippet() KnowledgeSnippet {
	return KnowledgeSnippet{Title: k.Title, Content: k.Content}
}

// Appointment is a booked slot derived from a conversation
type Appointment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PersonaID  string    `json:"persona_id"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Timezone   string    `json:"timezone"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	Notes      []string  `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
