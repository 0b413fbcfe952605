package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRecords(t *testing.T) {
	records, err := BuiltinRecords()
	require.NoError(t, err)
	require.Len(t, records, 3)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"home-improvement-expert", "technical-support", "appointment-setter"}, ids)

	expert, issues := NormalizeWithIssues(records[0])
	assert.Empty(t, issues)
	assert.Len(t, expert.Skills, 3)
	assert.Equal(t, "Project Planning & Estimation", expert.Skills[0].Name)
	// personality traits are omitted in the seed, so the default applies
	assert.Equal(t, DefaultPersonalityTraits, expert.PersonalityTraits)
}

func TestParseSeed_RequiresID(t *testing.T) {
	_, err := ParseSeed([]byte("personas:\n  - name: Nameless\n"))
	assert.ErrorContains(t, err, "has no id")
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "personas.yaml")
	doc := `personas:
  - id: estimator
    name: Estimator
    role: Cost Estimator
    constraints: ["Quote ranges, not exact prices"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	records, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `["Quote ranges, not exact prices"]`, records[0].Constraints)
	assert.Empty(t, records[0].Skills)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
