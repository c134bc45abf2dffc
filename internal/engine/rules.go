package engine

type Rules struct {
	Gacha   GachaRules   `yaml:"gacha" json:"gacha"`
	Battle  BattleRules  `yaml:"battle" json:"battle"`
	Team    TeamRules    `yaml:"team" json:"team"`
	Starter StarterRules `yaml:"starter" json:"starter"`
	SignIn  SignInRules  `yaml:"signin" json:"signin"`
}

type GachaRules struct {
	// PityThreshold is the draw count that forces a top tier result.
	PityThreshold int `yaml:"pity_threshold" json:"pity_threshold"`
	// TopRate and HighRate are cumulative percentages on a [0, 100) roll.
	TopRate         float64 `yaml:"top_rate" json:"top_rate"`
	HighRate        float64 `yaml:"high_rate" json:"high_rate"`
	TopTier         int     `yaml:"top_tier" json:"top_tier"`
	HighTier        int     `yaml:"high_tier" json:"high_tier"`
	BaseTier        int     `yaml:"base_tier" json:"base_tier"`
	SingleCost      int     `yaml:"single_cost" json:"single_cost"`
	MultiCost       int     `yaml:"multi_cost" json:"multi_cost"`
	MultiCount      int     `yaml:"multi_count" json:"multi_count"`
	DuplicateShards int     `yaml:"duplicate_shards" json:"duplicate_shards"`
}

type BattleRules struct {
	ProcBase      float64 `yaml:"proc_base" json:"proc_base"`
	ProcLuckScale float64 `yaml:"proc_luck_scale" json:"proc_luck_scale"`
	// ProcBoostPercent is added to a member's power when its skill fires.
	ProcBoostPercent int     `yaml:"proc_boost_percent" json:"proc_boost_percent"`
	FallbackSkill    string  `yaml:"fallback_skill" json:"fallback_skill"`
	EscapeChance     float64 `yaml:"escape_chance" json:"escape_chance"`
	DropChance       float64 `yaml:"drop_chance" json:"drop_chance"`
	DropMaxStars     int     `yaml:"drop_max_stars" json:"drop_max_stars"`
	ExpPerLevel      int     `yaml:"exp_per_level" json:"exp_per_level"`
	ClearStars       int     `yaml:"clear_stars" json:"clear_stars"`
}

type TeamRules struct {
	MaxSize    int `yaml:"max_size" json:"max_size"`
	EvolveCost int `yaml:"evolve_cost" json:"evolve_cost"`
}

type StarterRules struct {
	Gold      int    `yaml:"gold" json:"gold"`
	Tokens    int    `yaml:"tokens" json:"tokens"`
	General   string `yaml:"general" json:"general"`
	Equipment string `yaml:"equipment" json:"equipment"`
}

type SignInRules struct {
	Gold   int `yaml:"gold" json:"gold"`
	Tokens int `yaml:"tokens" json:"tokens"`
}

func DefaultRules() Rules {
	return Rules{
		Gacha: GachaRules{
			PityThreshold:   60,
			TopRate:         2,
			HighRate:        12,
			TopTier:         5,
			HighTier:        4,
			BaseTier:        3,
			SingleCost:      1,
			MultiCost:       10,
			MultiCount:      10,
			DuplicateShards: 10,
		},
		Battle: BattleRules{
			ProcBase:         0.2,
			ProcLuckScale:    500,
			ProcBoostPercent: 40,
			FallbackSkill:    "奋力一击",
			EscapeChance:     0.2,
			DropChance:       0.2,
			DropMaxStars:     3,
			ExpPerLevel:      100,
			ClearStars:       3,
		},
		Team: TeamRules{
			MaxSize:    5,
			EvolveCost: 10,
		},
		Starter: StarterRules{
			Gold:      1000,
			Tokens:    10,
			General:   "廖化",
			Equipment: "铁剑",
		},
		SignIn: SignInRules{
			Gold:   500,
			Tokens: 10,
		},
	}
}
