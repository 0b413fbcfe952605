package models

// Skill is a named technique a persona applies, with its ordered process
type Skill struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Steps       []string `json:"steps" yaml:"steps"`
}

// Persona is the canonical assistant definition used to condition a reply.
// Every list field is non-nil once produced by persona.Normalize.
type Persona struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Role               string   `json:"role"`
	Experience         string   `json:"experience"`
	PrimaryGoal        string   `json:"primary_goal"`
	CommunicationStyle string   `json:"communication_style"`
	Responsibilities   []string `json:"responsibilities"`
	Skills             []Skill  `json:"skills"`
	Constraints        []string `json:"constraints"`
	ExpertiseAreas     []string `json:"expertise_areas"`
	PersonalityTraits  []string `json:"personality_traits"`
	SuccessMetrics     []string `json:"success_metrics"`
	ContextAwareness   []string `json:"context_awareness"`
}

// SkillNames lists the persona's skill names in declared order
func (p Persona) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}

// PersonaRecord is the persisted attribute bag for a persona. The list fields
// hold serialized JSON text and may be empty.
type PersonaRecord struct {
	ID                 string `json:"id" yaml:"id"`
	Name               string `json:"name" yaml:"name"`
	Role               string `json:"role" yaml:"role"`
	Experience         string `json:"experience" yaml:"experience"`
	PrimaryGoal        string `json:"primary_goal" yaml:"primary_goal"`
	CommunicationStyle string `json:"communication_style" yaml:"communication_style"`
	Responsibilities   string `json:"responsibilities,omitempty" yaml:"responsibilities"`
	Skills             string `json:"skills,omitempty" yaml:"skills"`
	Constraints        string `json:"constraints,omitempty" yaml:"constraints"`
	ExpertiseAreas     string `json:"expertise_areas,omitempty" yaml:"expertise_areas"`
	PersonalityTraits  string `json:"personality_traits,omitempty" yaml:"personality_traits"`
	SuccessMetrics     string `json:"success_metrics,omitempty" yaml:"success_metrics"`
	ContextAwareness   string `json:"context_awareness,omitempty" yaml:"context_awareness"`
}
