package config

import (
	"fmt"
	"strings"

	"sanguo/internal/engine"

	"github.com/cockroachdb/errors"
)

// ValidateRules reports every broken constraint at once.
func ValidateRules(r engine.Rules) error {
	var errs []string

	g := r.Gacha
	if g.PityThreshold < 1 {
		errs = append(errs, "gacha.pity_threshold must be >= 1")
	}
	if g.TopRate < 0 || g.TopRate > 100 {
		errs = append(errs, "gacha.top_rate must be in [0,100]")
	}
	if g.HighRate < g.TopRate || g.HighRate > 100 {
		errs = append(errs, "gacha.high_rate must be in [top_rate,100]")
	}
	for name, tier := range map[string]int{"top_tier": g.TopTier, "high_tier": g.HighTier, "base_tier": g.BaseTier} {
		if tier < 1 || tier > 5 {
			errs = append(errs, fmt.Sprintf("gacha.%s must be in [1,5]", name))
		}
	}
	if g.SingleCost < 0 || g.MultiCost < 0 {
		errs = append(errs, "gacha costs must be >= 0")
	}
	if g.MultiCount < 1 {
		errs = append(errs, "gacha.multi_count must be >= 1")
	}
	if g.DuplicateShards < 0 {
		errs = append(errs, "gacha.duplicate_shards must be >= 0")
	}

	b := r.Battle
	if b.ProcLuckScale <= 0 {
		errs = append(errs, "battle.proc_luck_scale must be > 0")
	}
	for name, p := range map[string]float64{"proc_base": b.ProcBase, "escape_chance": b.EscapeChance, "drop_chance": b.DropChance} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Sprintf("battle.%s must be in [0,1]", name))
		}
	}
	if b.ProcBoostPercent < 0 {
		errs = append(errs, "battle.proc_boost_percent must be >= 0")
	}
	if b.ExpPerLevel < 1 {
		errs = append(errs, "battle.exp_per_level must be >= 1")
	}
	if b.ClearStars < 1 {
		errs = append(errs, "battle.clear_stars must be >= 1")
	}
	if b.DropMaxStars < 1 {
		errs = append(errs, "battle.drop_max_stars must be >= 1")
	}

	if r.Team.MaxSize < 1 {
		errs = append(errs, "team.max_size must be >= 1")
	}
	if r.Team.EvolveCost < 1 {
		errs = append(errs, "team.evolve_cost must be >= 1")
	}

	if len(errs) > 0 {
		return errors.Newf("invalid rules: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ValidateCatalog checks the seed against itself and the rules it must serve.
func ValidateCatalog(c *Catalog, r engine.Rules) error {
	var errs []string

	generals := map[string]bool{}
	tiers := map[int]int{}
	for _, g := range c.Generals {
		if g.Name == "" {
			errs = append(errs, "general with empty name")
			continue
		}
		if generals[g.Name] {
			errs = append(errs, fmt.Sprintf("general %s listed twice", g.Name))
		}
		generals[g.Name] = true
		if g.Stars < 1 || g.Stars > 5 {
			errs = append(errs, fmt.Sprintf("general %s: stars must be in [1,5]", g.Name))
		}
		if g.Weight < 0 {
			errs = append(errs, fmt.Sprintf("general %s: weight must be >= 0", g.Name))
		}
		tiers[g.Stars]++
	}
	for _, tier := range []int{r.Gacha.TopTier, r.Gacha.HighTier, r.Gacha.BaseTier} {
		if tiers[tier] == 0 {
			errs = append(errs, fmt.Sprintf("no general of tier %d to draw", tier))
		}
	}

	equipment := map[string]bool{}
	droppable := 0
	for _, e := range c.Equipment {
		if equipment[e.Name] {
			errs = append(errs, fmt.Sprintf("equipment %s listed twice", e.Name))
		}
		equipment[e.Name] = true
		if !engine.Slot(e.Type).Valid() {
			errs = append(errs, fmt.Sprintf("equipment %s: unknown type %q", e.Name, e.Type))
		}
		if e.Stars <= r.Battle.DropMaxStars {
			droppable++
		}
	}
	if droppable == 0 {
		errs = append(errs, "no equipment can drop from battles")
	}

	campaigns := map[string]bool{}
	for _, cp := range c.Campaigns {
		if campaigns[cp.Name] {
			errs = append(errs, fmt.Sprintf("campaign %s listed twice", cp.Name))
		}
		campaigns[cp.Name] = true
		if cp.RequiredPower < 0 || cp.Gold < 0 || cp.Exp < 0 {
			errs = append(errs, fmt.Sprintf("campaign %s: negative values", cp.Name))
		}
	}

	if r.Starter.General != "" && !generals[r.Starter.General] {
		errs = append(errs, fmt.Sprintf("starter general %s not in catalog", r.Starter.General))
	}
	if r.Starter.Equipment != "" && !equipment[r.Starter.Equipment] {
		errs = append(errs, fmt.Sprintf("starter equipment %s not in catalog", r.Starter.Equipment))
	}

	if len(errs) > 0 {
		return errors.Newf("invalid catalog: %s", strings.Join(errs, "; "))
	}
	return nil
}
