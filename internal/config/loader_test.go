package config

import (
	"os"
	"path/filepath"
	"testing"

	"sanguo/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRulesEmbedded(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultRules(), rules)
}

func TestLoadRulesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gacha:\n  pity_threshold: 90\nsignin:\n  gold: 800\n"), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 90, rules.Gacha.PityThreshold)
	assert.Equal(t, 800, rules.SignIn.Gold)
	// untouched keys keep their defaults
	assert.Equal(t, 10, rules.SignIn.Tokens)
	assert.InDelta(t, 2.0, rules.Gacha.TopRate, 1e-9)
}

func TestLoadRulesRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gacha:\n  pity_threshold: 0\n  high_rate: 1\nteam:\n  max_size: 0\n"), 0o600))

	_, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gacha.pity_threshold")
	assert.Contains(t, err.Error(), "gacha.high_rate")
	assert.Contains(t, err.Error(), "team.max_size")
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEmbeddedCatalogIsValid(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	require.NoError(t, ValidateCatalog(c, engine.DefaultRules()))

	assert.Len(t, c.Campaigns, 7)
	assert.Equal(t, "黄巾之乱", c.Campaigns[0].Name)
	assert.Equal(t, 100, c.Campaigns[0].RequiredPower)
	assert.NotEmpty(t, c.Equipment)

	byName := map[string]GeneralSeed{}
	for _, g := range c.Generals {
		byName[g.Name] = g
	}
	assert.Equal(t, "天下归心", byName["曹操"].Skill)
	assert.Equal(t, 3, byName["廖化"].Stars)
}

func TestValidateCatalog(t *testing.T) {
	c := &Catalog{
		Generals: []GeneralSeed{
			{Name: "a", Stars: 5},
			{Name: "a", Stars: 4},
			{Name: "b", Stars: 7},
		},
		Equipment: []EquipmentSeed{{Name: "x", Type: "boots", Stars: 5}},
		Campaigns: []CampaignSeed{{Name: "c", RequiredPower: -1}},
	}

	err := ValidateCatalog(c, engine.DefaultRules())
	require.Error(t, err)
	for _, want := range []string{
		"general a listed twice",
		"stars must be in [1,5]",
		"no general of tier 3",
		"unknown type",
		"no equipment can drop",
		"negative values",
		"starter general",
	} {
		assert.Contains(t, err.Error(), want)
	}
}
