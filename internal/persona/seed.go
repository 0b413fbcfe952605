package persona

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/benjiemalinao87/myknowledgebase/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var builtinSeed []byte

// SeedPersona is the YAML shape of a persona definition. Lists are written
// natively and serialized into a PersonaRecord on load.
type SeedPersona struct {
	ID                 string         `yaml:"id"`
	Name               string         `yaml:"name"`
	Role               string         `yaml:"role"`
	Experience         string         `yaml:"experience"`
	PrimaryGoal        string         `yaml:"primary_goal"`
	CommunicationStyle string         `yaml:"communication_style"`
	Responsibilities   []string       `yaml:"responsibilities"`
	Skills             []models.Skill `yaml:"skills"`
	Constraints        []string       `yaml:"constraints"`
	ExpertiseAreas     []string       `yaml:"expertise_areas"`
	PersonalityTraits  []string       `yaml:"personality_traits"`
	SuccessMetrics     []string       `yaml:"success_metrics"`
	ContextAwareness   []string       `yaml:"context_awareness"`
}

type seedFile struct {
	Personas []SeedPersona `yaml:"personas"`
}

// BuiltinRecords returns the personas shipped with the binary
func BuiltinRecords() ([]models.PersonaRecord, error) {
	return ParseSeed(builtinSeed)
}

// LoadSeedFile reads persona definitions from a YAML file
func LoadSeedFile(path string) ([]models.PersonaRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading persona seed %s: %w", path, err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML persona document into records
func ParseSeed(data []byte) ([]models.PersonaRecord, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing persona seed: %w", err)
	}

	records := make([]models.PersonaRecord, 0, len(f.Personas))
	for _, sp := range f.Personas {
		if sp.ID == "" {
			return nil, fmt.Errorf("parsing persona seed: persona %q has no id", sp.Name)
		}
		records = append(records, sp.record())
	}
	return records, nil
}

func (sp SeedPersona) record() models.PersonaRecord {
	return models.PersonaRecord{
		ID:                 sp.ID,
		Name:               sp.Name,
		Role:               sp.Role,
		Experience:         sp.Experience,
		PrimaryGoal:        sp.PrimaryGoal,
		CommunicationStyle: sp.CommunicationStyle,
		Responsibilities:   encodeList(sp.Responsibilities),
		Skills:             encodeList(sp.Skills),
		Constraints:        encodeList(sp.Constraints),
		ExpertiseAreas:     encodeList(sp.ExpertiseAreas),
		PersonalityTraits:  encodeList(sp.PersonalityTraits),
		SuccessMetrics:     encodeList(sp.SuccessMetrics),
		ContextAwareness:   encodeList(sp.ContextAwareness),
	}
}

// encodeList leaves omitted lists empty so Normalize applies the default
func encodeList[T any](v []T) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
