package config

import (
	_ "embed"
	"os"

	"sanguo/internal/engine"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var embeddedRules []byte

//go:embed catalog.yaml
var embeddedCatalog []byte

type GeneralSeed struct {
	Name        string `yaml:"name"`
	Stars       int    `yaml:"stars"`
	Str         int    `yaml:"str"`
	Int         int    `yaml:"int"`
	Ldr         int    `yaml:"ldr"`
	Luck        int    `yaml:"luck"`
	Country     string `yaml:"country"`
	Description string `yaml:"description"`
	Skill       string `yaml:"skill"`
	SkillDesc   string `yaml:"skill_desc"`
	// Weight scales the chance of being picked within its tier; 0 means 1.
	Weight int `yaml:"weight"`
}

type EquipmentSeed struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	StatBonus int    `yaml:"stat_bonus"`
	Stars     int    `yaml:"stars"`
	Weight    int    `yaml:"weight"`
}

type CampaignSeed struct {
	Name          string `yaml:"name"`
	RequiredPower int    `yaml:"required_power"`
	Gold          int    `yaml:"gold"`
	Exp           int    `yaml:"exp"`
}

type Catalog struct {
	Generals  []GeneralSeed   `yaml:"generals"`
	Equipment []EquipmentSeed `yaml:"equipment"`
	Campaigns []CampaignSeed  `yaml:"campaigns"`
}

// LoadRules starts from the built-in rules and overlays the embedded file and
// then path, when given. Keys missing from a file keep their previous value.
func LoadRules(path string) (engine.Rules, error) {
	rules := engine.DefaultRules()
	if err := yaml.Unmarshal(embeddedRules, &rules); err != nil {
		return rules, errors.Wrap(err, "embedded rules")
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return rules, errors.Wrapf(err, "read rules %s", path)
		}
		if err := yaml.Unmarshal(b, &rules); err != nil {
			return rules, errors.Wrapf(err, "parse rules %s", path)
		}
	}

	return rules, ValidateRules(rules)
}

// LoadCatalog reads the seed catalog from path, or the embedded one.
func LoadCatalog(path string) (*Catalog, error) {
	b := embeddedCatalog
	if path != "" {
		var err error
		b, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read catalog %s", path)
		}
	}

	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}
	return &c, nil
}
