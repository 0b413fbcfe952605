// Package persona turns persisted persona records into canonical Persona values.
package persona

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultPrimaryGoal        = "Provide helpful assistance"
	DefaultCommunicationStyle = "Professional and friendly"
)

// Defaults for list fields that are absent from a record. Responsibilities
// has no fixed default: it falls back to the persona's role.
var (
	DefaultConstraints       = []string{"Be helpful and accurate", "Stay within role boundaries"}
	DefaultPersonalityTraits = []string{"Professional", "Helpful"}
	DefaultSuccessMetrics    = []string{"Customer satisfaction"}
	DefaultContextAwareness  = []string{"Industry best practices"}
)

var errAbsent = errors.New("field absent")

// MalformedPersonaDataError reports a list field whose serialized text could
// not be decoded. Normalize recovers from it by substituting the default.
type MalformedPersonaDataError struct {
	PersonaID string
	Field     string
	Err       error
}

func (e *MalformedPersonaDataError) Error() string {
	return fmt.Sprintf("malformed persona data: persona %q field %q: %v", e.PersonaID, e.Field, e.Err)
}

func (e *MalformedPersonaDataError) Unwrap() error { return e.Err }

// Normalize builds a Persona from a raw record. Missing list fields get their
// documented default, malformed ones are logged and defaulted as well.
func Normalize(raw models.PersonaRecord, logger *zap.Logger) models.Persona {
	p, issues := NormalizeWithIssues(raw)
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, issue := range issues {
		logger.Warn("Persona field malformed, using default",
			zap.String("persona_id", issue.PersonaID),
			zap.String("field", issue.Field),
			zap.Error(issue.Err))
	}
	return p
}

// NormalizeWithIssues is Normalize without logging; the recovered decode
// failures are returned so callers can report them.
func NormalizeWithIssues(raw models.PersonaRecord) (models.Persona, []*MalformedPersonaDataError) {
	n := &normalizer{id: raw.ID}

	p := models.Persona{
		ID:                 raw.ID,
		Name:               raw.Name,
		Role:               raw.Role,
		Experience:         raw.Experience,
		PrimaryGoal:        stringOr(raw.PrimaryGoal, DefaultPrimaryGoal),
		CommunicationStyle: stringOr(raw.CommunicationStyle, DefaultCommunicationStyle),
	}

	responsibilities, err := n.strings("responsibilities", raw.Responsibilities)
	p.Responsibilities = orDefault(responsibilities, err, []string{raw.Role})
	skills, err := n.skills(raw.Skills)
	p.Skills = orDefault(skills, err, []models.Skill{})
	constraints, err := n.strings("constraints", raw.Constraints)
	p.Constraints = orDefault(constraints, err, DefaultConstraints)
	expertise, err := n.strings("expertise_areas", raw.ExpertiseAreas)
	p.ExpertiseAreas = orDefault(expertise, err, []string{})
	traits, err := n.strings("personality_traits", raw.PersonalityTraits)
	p.PersonalityTraits = orDefault(traits, err, DefaultPersonalityTraits)
	metrics, err := n.strings("success_metrics", raw.SuccessMetrics)
	p.SuccessMetrics = orDefault(metrics, err, DefaultSuccessMetrics)
	awareness, err := n.strings("context_awareness", raw.ContextAwareness)
	p.ContextAwareness = orDefault(awareness, err, DefaultContextAwareness)

	return p, n.issues
}

// orDefault returns parsed unless it failed, in which case a copy of def is
// returned so callers never share the package-level default slices.
func orDefault[T any](parsed []T, err error, def []T) []T {
	if err != nil || parsed == nil {
		out := make([]T, len(def))
		copy(out, def)
		return out
	}
	return parsed
}

type normalizer struct {
	id     string
	issues []*MalformedPersonaDataError
}

func (n *normalizer) strings(field, text string) ([]string, error) {
	var out []string
	err := n.decode(field, text, &out)
	return out, err
}

func (n *normalizer) skills(text string) ([]models.Skill, error) {
	var out []models.Skill
	if err := n.decode("skills", text, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Steps == nil {
			out[i].Steps = []string{}
		}
	}
	return out, nil
}

func (n *normalizer) decode(field, text string, dst any) error {
	if strings.TrimSpace(text) == "" {
		return errAbsent
	}
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		n.issues = append(n.issues, &MalformedPersonaDataError{PersonaID: n.id, Field: field, Err: err})
		return err
	}
	return nil
}

func stringOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
