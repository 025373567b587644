package subjects

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelldahl/framewatch/internal/taxonomy"
)

func TestLoadDefaults(t *testing.T) {
	reg := Load()

	subject, err := reg.Lookup("asylum_policy")
	require.NoError(t, err)
	assert.Equal(t, "asylum_policy", subject.ID)
	assert.NotEmpty(t, subject.TriggerPhrases)
	require.NotNil(t, subject.Institutional)
	assert.Equal(t, taxonomy.RespectRuleOfLaw, subject.Institutional.RespectID)
}

func TestLookupUnknownSubject(t *testing.T) {
	reg := Load()

	_, err := reg.Lookup("carbon_tax")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

func TestInstitutionalContribution(t *testing.T) {
	reg := Load()

	got := reg.InstitutionalContribution("asylum_policy")
	require.NotNil(t, got)
	assert.Equal(t, taxonomy.RespectRuleOfLaw, got.RespectID)
	assert.NotEmpty(t, got.SourceIDs)

	assert.Nil(t, reg.InstitutionalContribution("carbon_tax"))
}

func TestOutletCategory(t *testing.T) {
	reg := Load()

	assert.Equal(t, "broadcast", reg.OutletCategory("BBC News"))
	assert.Equal(t, "tabloid", reg.OutletCategory("Daily Mail"))
	assert.Equal(t, "wire", reg.OutletCategory("Reuters"))
	assert.Equal(t, "online", reg.OutletCategory("Some Blog"))
}

func TestMatchPollTextFirstPatternWins(t *testing.T) {
	reg := Load()

	assert.Equal(t, taxonomy.RespectSecurityBorder, reg.MatchPollText("Tougher action to stop the boats"))
	assert.Equal(t, taxonomy.RespectHumanitarian, reg.MatchPollText("Create safe and legal routes"))
	assert.Equal(t, taxonomy.RespectRuleOfLaw, reg.MatchPollText("Follow international law"))
	assert.Equal(t, taxonomy.RespectCapacityDelivery, reg.MatchPollText("Clear the backlog first"))
	assert.Equal(t, taxonomy.RespectEconomicLabour, reg.MatchPollText("Let them fill labour shortages"))

	// An option hitting both the security and humanitarian tables resolves to
	// the earlier pattern.
	assert.Equal(t, taxonomy.RespectSecurityBorder, reg.MatchPollText("Deport arrivals but protect children"))
}

func TestMatchPollTextFallsBackToDefault(t *testing.T) {
	reg := Load()
	assert.Equal(t, taxonomy.DefaultPollRespect, reg.MatchPollText("Don't know"))
}

func TestLoadFromYAMLFile(t *testing.T) {
	content := `subjects:
  carbon_tax:
    id: carbon_tax
    title: Carbon tax
    trigger_phrases: ["carbon", "emissions"]
    actor_respect_map:
      green-growth: economic_labour
outlet_categories:
  Test Outlet: broadsheet
poll_patterns:
  - pattern: "(?i)tax"
    respect_id: economic_labour
`
	path := filepath.Join(t.TempDir(), "subjects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(configPathEnv, path)

	reg := Load()

	subject, err := reg.Lookup("carbon_tax")
	require.NoError(t, err)
	assert.Equal(t, "Carbon tax", subject.Title)
	assert.Equal(t, "broadsheet", reg.OutletCategory("Test Outlet"))
	assert.Equal(t, taxonomy.RespectEconomicLabour, reg.MatchPollText("Scrap the tax"))

	_, err = reg.Lookup("asylum_policy")
	assert.ErrorIs(t, err, ErrUnknownSubject)
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	reg := Load()
	_, err := reg.Lookup("asylum_policy")
	assert.NoError(t, err)
}

func TestLoadBadPatternFallsBack(t *testing.T) {
	content := `poll_patterns:
  - pattern: "(unclosed"
    respect_id: economic_labour
`
	path := filepath.Join(t.TempDir(), "subjects.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(configPathEnv, path)

	reg := Load()
	_, err := reg.Lookup("asylum_policy")
	assert.NoError(t, err)
}
