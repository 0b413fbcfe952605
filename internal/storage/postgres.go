package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

// DSN renders the libpq connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(ctx context.Context, config DatabaseConfig) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := NewPostgresStorageFromDB(db)

	// Initialize database schema
	if err := storage.initializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

// NewPostgresStorageFromDB wraps an open handle without touching the schema
func NewPostgresStorageFromDB(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) initializeSchema(ctx context.Context) error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

const personaColumns = `id, name, role, experience, primary_goal, communication_style,
	responsibilities, skills, constraints, expertise_areas, personality_traits,
	success_metrics, context_awareness`

type scanner interface {
	Scan(dest ...any) error
}

func scanPersona(row scanner) (*models.PersonaRecord, error) {
	p := &models.PersonaRecord{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Role, &p.Experience, &p.PrimaryGoal, &p.CommunicationStyle,
		&p.Responsibilities, &p.Skills, &p.Constraints, &p.ExpertiseAreas, &p.PersonalityTraits,
		&p.SuccessMetrics, &p.ContextAwareness,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStorage) GetPersona(ctx context.Context, id string) (*models.PersonaRecord, error) {
	query := `SELECT ` + personaColumns + ` FROM personas WHERE id = $1`

	p, err := scanPersona(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting persona %s: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStorage) FirstPersona(ctx context.Context) (*models.PersonaRecord, error) {
	query := `SELECT ` + personaColumns + ` FROM personas ORDER BY created_at, id LIMIT 1`

	p, err := scanPersona(s.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting first persona: %w", err)
	}
	return p, nil
}

func (s *PostgresStorage) ListPersonas(ctx context.Context) ([]*models.PersonaRecord, error) {
	query := `SELECT ` + personaColumns + ` FROM personas ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying personas: %w", err)
	}
	defer rows.Close()

	personas := []*models.PersonaRecord{}
	for rows.Next() {
		p, err := scanPersona(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning persona: %w", err)
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}

func (s *PostgresStorage) SavePersona(ctx context.Context, p *models.PersonaRecord) error {
	query := `
		INSERT INTO personas (` + personaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			experience = EXCLUDED.experience,
			primary_goal = EXCLUDED.primary_goal,
			communication_style = EXCLUDED.communication_style,
			responsibilities = EXCLUDED.responsibilities,
			skills = EXCLUDED.skills,
			constraints = EXCLUDED.constraints,
			expertise_areas = EXCLUDED.expertise_areas,
			personality_traits = EXCLUDED.personality_traits,
			success_metrics = EXCLUDED.success_metrics,
			context_awareness = EXCLUDED.context_awareness`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Role, p.Experience, p.PrimaryGoal, p.CommunicationStyle,
		p.Responsibilities, p.Skills, p.Constraints, p.ExpertiseAreas, p.PersonalityTraits,
		p.SuccessMetrics, p.ContextAwareness,
	)
	if err != nil {
		return fmt.Errorf("error saving persona %s: %w", p.ID, err)
	}
	return nil
}

const knowledgeColumns = `id, type, title, content, url, file_type, tags, added_at, updated_at`

func scanKnowledgeRows(rows *sql.Rows) ([]*models.KnowledgeItem, error) {
	defer rows.Close()

	items := []*models.KnowledgeItem{}
	for rows.Next() {
		item := &models.KnowledgeItem{}
		err := rows.Scan(
			&item.ID,
			&item.Type,
			&item.Title,
			&item.Content,
			&item.URL,
			&item.FileType,
			pq.Array(&item.Tags),
			&item.AddedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning knowledge item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStorage) AddKnowledge(ctx context.Context, item *models.KnowledgeItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	query := `
		INSERT INTO knowledge_items (id, type, title, content, url, file_type, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING added_at, updated_at`

	err := s.db.QueryRowContext(ctx, query,
		item.ID,
		item.Type,
		item.Title,
		item.Content,
		item.URL,
		item.FileType,
		pq.Array(item.Tags),
	).Scan(&item.AddedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating knowledge item: %w", err)
	}
	return nil
}

func (s *PostgresStorage) GetKnowledge(ctx context.Context, ids []string) ([]*models.KnowledgeItem, error) {
	if len(ids) == 0 {
		return []*models.KnowledgeItem{}, nil
	}
	query := `SELECT ` + knowledgeColumns + ` FROM knowledge_items WHERE id = ANY($1) ORDER BY added_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying knowledge items: %w", err)
	}
	return scanKnowledgeRows(rows)
}

func (s *PostgresStorage) RecentKnowledge(ctx context.Context, limit int) ([]*models.KnowledgeItem, error) {
	query := `SELECT ` + knowledgeColumns + ` FROM knowledge_items ORDER BY added_at DESC, id LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying recent knowledge: %w", err)
	}
	return scanKnowledgeRows(rows)
}

func (s *PostgresStorage) SaveExchange(ctx context.Context, ex *models.ChatExchange) error {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	var contextArg any
	if ex.Context != nil {
		encoded, err := json.Marshal(ex.Context)
		if err != nil {
			return fmt.Errorf("error encoding message context: %w", err)
		}
		contextArg = string(encoded)
	}
	query := `
		INSERT INTO chat_history (id, user_id, persona_id, session_id, message, response, context)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		ex.ID, ex.UserID, ex.PersonaID, ex.SessionID, ex.Message, ex.Response, contextArg,
	).Scan(&ex.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving chat exchange: %w", err)
	}
	return nil
}

func (s *PostgresStorage) RecentExchanges(ctx context.Context, userID string, limit int) ([]*models.ChatExchange, error) {
	query := `
		SELECT id, user_id, persona_id, session_id, message, response, context, created_at
		FROM chat_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying chat history: %w", err)
	}
	defer rows.Close()

	exchanges := []*models.ChatExchange{}
	for rows.Next() {
		ex := &models.ChatExchange{}
		var contextJSON []byte
		err := rows.Scan(&ex.ID, &ex.UserID, &ex.PersonaID, &ex.SessionID, &ex.Message, &ex.Response, &contextJSON, &ex.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat exchange: %w", err)
		}
		if len(contextJSON) > 0 {
			ex.Context = &models.MessageContext{}
			if err := json.Unmarshal(contextJSON, ex.Context); err != nil {
				return nil, fmt.Errorf("error decoding message context: %w", err)
			}
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// newest first from the query, callers want chronological order
	for i, j := 0, len(exchanges)-1; i < j; i, j = i+1, j-1 {
		exchanges[i], exchanges[j] = exchanges[j], exchanges[i]
	}
	return exchanges, nil
}

func (s *PostgresStorage) SaveAppointment(ctx context.Context, a *models.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Notes == nil {
		a.Notes = []string{}
	}
	query := `
		INSERT INTO appointments (id, user_id, persona_id, start_time, end_time, timezone, confidence, source, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.PersonaID, a.StartTime, a.EndTime, a.Timezone, a.Confidence, a.Source, pq.Array(a.Notes),
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving appointment: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListAppointments(ctx context.Context, userID string) ([]*models.Appointment, error) {
	query := `
		SELECT id, user_id, persona_id, start_time, end_time, timezone, confidence, source, notes, created_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer rows.Close()

	appointments := []*models.Appointment{}
	for rows.Next() {
		a := &models.Appointment{}
		err := rows.Scan(&a.ID, &a.UserID, &a.PersonaID, &a.StartTime, &a.EndTime, &a.Timezone,
			&a.Confidence, &a.Source, pq.Array(&a.Notes), &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (s *PostgresStorage) GetSession(ctx context.Context, userID string) (*models.Session, error) {
	query := `SELECT user_id, persona_id, created_at, last_used_at FROM sessions WHERE user_id = $1`

	session := &models.Session{}
	err := s.db.QueryRowContext(ctx, query, userID).
		Scan(&session.UserID, &session.PersonaID, &session.CreatedAt, &session.LastUsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	return session, nil
}

func (s *PostgresStorage) SaveSession(ctx context.Context, userID, personaID string) error {
	query := `
		INSERT INTO sessions (user_id, persona_id, created_at, last_used_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET persona_id = EXCLUDED.persona_id, last_used_at = EXCLUDED.last_used_at`

	if _, err := s.db.ExecContext(ctx, query, userID, personaID, time.Now()); err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

func (s *PostgresStorage) TouchSession(ctx context.Context, userID string) error {
	query := `UPDATE sessions SET last_used_at = $1 WHERE user_id = $2`

	if _, err := s.db.ExecContext(ctx, query, time.Now(), userID); err != nil {
		return fmt.Errorf("error updating session: %w", err)
	}
	return nil
}

func (s *PostgresStorage) DeleteSession(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
