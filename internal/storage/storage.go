package storage

import (
	"context"
	"errors"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

// ErrNotFound is returned when a single record lookup has no match
var ErrNotFound = errors.New("not found")

type Storage interface {
	PersonaStore
	KnowledgeStore
	HistoryStore
	AppointmentStore
	SessionStore
	Close() error
}

type PersonaStore interface {
	GetPersona(ctx context.Context, id string) (*models.PersonaRecord, error)
	// FirstPersona returns the earliest stored persona
	FirstPersona(ctx context.Context) (*models.PersonaRecord, error)
	ListPersonas(ctx context.Context) ([]*models.PersonaRecord, error)
	SavePersona(ctx context.Context, p *models.PersonaRecord) error
}

type KnowledgeStore interface {
	AddKnowledge(ctx context.Context, item *models.KnowledgeItem) error
	// GetKnowledge returns the items with the given ids, newest first. Unknown ids are ignored.
	GetKnowledge(ctx context.Context, ids []string) ([]*models.KnowledgeItem, error)
	RecentKnowledge(ctx context.Context, limit int) ([]*models.KnowledgeItem, error)
}

type HistoryStore interface {
	SaveExchange(ctx context.Context, ex *models.ChatExchange) error
	// RecentExchanges returns the user's last limit exchanges, oldest first
	RecentExchanges(ctx context.Context, userID string, limit int) ([]*models.ChatExchange, error)
}

type AppointmentStore interface {
	SaveAppointment(ctx context.Context, a *models.Appointment) error
	ListAppointments(ctx context.Context, userID string) ([]*models.Appointment, error)
}

// SessionStore tracks the active persona per user
type SessionStore interface {
	GetSession(ctx context.Context, userID string) (*models.Session, error)
	SaveSession(ctx context.Context, userID, personaID string) error
	TouchSession(ctx context.Context, userID string) error
	DeleteSession(ctx context.Context, userID string) error
}

// SeedPersonas saves every record whose id is not stored yet and returns how
// many were added.
func SeedPersonas(ctx context.Context, store PersonaStore, records []models.PersonaRecord) (int, error) {
	added := 0
	for i := range records {
		rec := records[i]
		_, err := store.GetPersona(ctx, rec.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return added, err
		}
		if err := store.SavePersona(ctx, &rec); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
