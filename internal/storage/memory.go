package storage

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

type MemoryStorage struct {
	mu           sync.RWMutex
	personas     map[string]*models.PersonaRecord
	personaOrder []string
	knowledge    map[string]*models.KnowledgeItem
	history      map[string][]*models.ChatExchange
	appointments map[string][]*models.Appointment
	sessions     map[string]*models.Session
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		personas:     make(map[string]*models.PersonaRecord),
		knowledge:    make(map[string]*models.KnowledgeItem),
		history:      make(map[string][]*models.ChatExchange),
		appointments: make(map[string][]*models.Appointment),
		sessions:     make(map[string]*models.Session),
	}
}

// Persona methods
func (s *MemoryStorage) GetPersona(ctx context.Context, id string) (*models.PersonaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, exists := s.personas[id]; exists {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) FirstPersona(ctx context.Context) (*models.PersonaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.personaOrder) == 0 {
		return nil, ErrNotFound
	}
	cp := *s.personas[s.personaOrder[0]]
	return &cp, nil
}

func (s *MemoryStorage) ListPersonas(ctx context.Context) ([]*models.PersonaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.PersonaRecord, 0, len(s.personaOrder))
	for _, id := range s.personaOrder {
		cp := *s.personas[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStorage) SavePersona(ctx context.Context, p *models.PersonaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.personas[p.ID]; !exists {
		s.personaOrder = append(s.personaOrder, p.ID)
	}
	cp := *p
	s.personas[p.ID] = &cp
	return nil
}

// Knowledge methods
func (s *MemoryStorage) AddKnowledge(ctx context.Context, item *models.KnowledgeItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now()
	if item.AddedAt.IsZero() {
		item.AddedAt = now
	}
	item.UpdatedAt = now
	cp := *item
	cp.Tags = slices.Clone(item.Tags)
	s.knowledge[item.ID] = &cp
	return nil
}

func (s *MemoryStorage) GetKnowledge(ctx context.Context, ids []string) ([]*models.KnowledgeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.KnowledgeItem, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if item, exists := s.knowledge[id]; exists && !seen[id] {
			seen[id] = true
			cp := *item
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStorage) RecentKnowledge(ctx context.Context, limit int) ([]*models.KnowledgeItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.KnowledgeItem, 0, len(s.knowledge))
	for _, item := range s.knowledge {
		cp := *item
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(items []*models.KnowledgeItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].AddedAt.After(items[j].AddedAt)
	})
}

// History methods
func (s *MemoryStorage) SaveExchange(ctx context.Context, ex *models.ChatExchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now()
	}
	cp := *ex
	s.history[ex.UserID] = append(s.history[ex.UserID], &cp)
	return nil
}

func (s *MemoryStorage) RecentExchanges(ctx context.Context, userID string, limit int) ([]*models.ChatExchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.history[userID]
	start := 0
	if limit >= 0 && len(all) > limit {
		start = len(all) - limit
	}
	out := make([]*models.ChatExchange, 0, len(all)-start)
	for _, ex := range all[start:] {
		cp := *ex
		out = append(out, &cp)
	}
	return out, nil
}

// Appointment methods
func (s *MemoryStorage) SaveAppointment(ctx context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	cp := *a
	cp.Notes = slices.Clone(a.Notes)
	s.appointments[a.UserID] = append(s.appointments[a.UserID], &cp)
	return nil
}

func (s *MemoryStorage) ListAppointments(ctx context.Context, userID string) ([]*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Appointment, 0, len(s.appointments[userID]))
	for _, a := range s.appointments[userID] {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// Session methods
func (s *MemoryStorage) GetSession(ctx context.Context, userID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if session, exists := s.sessions[userID]; exists {
		cp := *session
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) SaveSession(ctx context.Context, userID, personaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.sessions[userID] = &models.Session{
		UserID:     userID,
		PersonaID:  personaID,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	return nil
}

func (s *MemoryStorage) TouchSession(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[userID]; exists {
		session.LastUsedAt = time.Now()
	}
	return nil
}

func (s *MemoryStorage) DeleteSession(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
