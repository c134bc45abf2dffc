package engine

import (
	"fmt"
)

type Campaign struct {
	ID            int64
	Name          string
	RequiredPower int
	Gold          int
	Exp           int
}

type LevelUp struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// Progress is a member's level and experience after the battle.
type Progress struct {
	ID    int64 `json:"id"`
	Level int   `json:"level"`
	Exp   int   `json:"exp"`
}

type Outcome struct {
	Win        bool       `json:"win"`
	Escaped    bool       `json:"escaped"`
	RawPower   int        `json:"raw_power"`
	FinalPower int        `json:"final_power"`
	Bonds      BondResult `json:"bonds"`
	Log        []string   `json:"log"`
	Gold       int        `json:"gold"`
	Exp        int        `json:"exp"`
	Progress   []Progress `json:"progress"`
	LevelUps   []LevelUp  `json:"level_ups"`
	Drop       bool       `json:"drop"`
}

type TeamPower struct {
	RawPower   int        `json:"raw_power"`
	FinalPower int        `json:"final_power"`
	Multiplier float64    `json:"multiplier"`
	Bonds      BondResult `json:"bonds"`
}

type Resolver struct {
	Rules   BattleRules
	Bonds   BondTable
	MaxTeam int
}

func NewResolver(rules Rules) *Resolver {
	return &Resolver{Rules: rules.Battle, Bonds: DefaultBondTable, MaxTeam: rules.Team.MaxSize}
}

func (r *Resolver) checkTeam(team []Member) error {
	if len(team) == 0 {
		return ErrEmptyTeam
	}
	if r.MaxTeam > 0 && len(team) > r.MaxTeam {
		return ErrTeamFull
	}
	seen := make(map[int64]bool, len(team))
	for _, m := range team {
		if seen[m.GeneralID] {
			return ErrDuplicateInTeam
		}
		seen[m.GeneralID] = true
	}
	return nil
}

// ProcChance is the probability that a member's skill fires.
func (r *Resolver) ProcChance(m Member) float64 {
	return r.Rules.ProcBase + float64(m.Stats.Luck)/r.Rules.ProcLuckScale
}

// Evaluate reports team power and bonds without skill procs.
func (r *Resolver) Evaluate(team []Member) (*TeamPower, error) {
	if err := r.checkTeam(team); err != nil {
		return nil, err
	}

	raw := 0
	for _, m := range team {
		raw += Power(m)
	}
	bonds := r.Bonds.Evaluate(team)
	return &TeamPower{
		RawPower:   raw,
		FinalPower: bonds.Apply(raw),
		Multiplier: bonds.Multiplier(),
		Bonds:      bonds,
	}, nil
}

// Resolve runs one battle. Rolls are consumed in a fixed order: one proc roll
// per member in team order, the escape roll only when power falls short, and
// the drop roll only on a win.
func (r *Resolver) Resolve(team []Member, campaign Campaign, dice Roller) (*Outcome, error) {
	if err := r.checkTeam(team); err != nil {
		return nil, err
	}

	out := &Outcome{Log: []string{}, Progress: []Progress{}, LevelUps: []LevelUp{}}
	for _, m := range team {
		p := Power(m)
		if Chance(dice, r.ProcChance(m)) {
			p += p * r.Rules.ProcBoostPercent / 100
			skill := m.Skill
			if skill == "" {
				skill = r.Rules.FallbackSkill
			}
			out.Log = append(out.Log, fmt.Sprintf("%s 发动了 【%s】! 战力激增!", m.Name, skill))
		}
		out.RawPower += p
	}

	out.Bonds = r.Bonds.Evaluate(team)
	out.FinalPower = out.Bonds.Apply(out.RawPower)

	switch {
	case out.FinalPower >= campaign.RequiredPower:
		out.Win = true
	case Chance(dice, r.Rules.EscapeChance):
		out.Win = true
		out.Escaped = true
	}

	if !out.Win {
		out.Log = append(out.Log, fmt.Sprintf("战力 %d 不足 %d，%s 失利。", out.FinalPower, campaign.RequiredPower, campaign.Name))
		return out, nil
	}

	out.Gold = campaign.Gold
	out.Exp = campaign.Exp
	for _, m := range team {
		level, exp := GainExp(m.Level, m.Exp, campaign.Exp, r.Rules.ExpPerLevel)
		out.Progress = append(out.Progress, Progress{ID: m.ID, Level: level, Exp: exp})
		if level > m.Level {
			out.LevelUps = append(out.LevelUps, LevelUp{ID: m.ID, Name: m.Name, From: m.Level, To: level})
		}
	}
	out.Drop = Chance(dice, r.Rules.DropChance)
	if out.Escaped {
		out.Log = append(out.Log, fmt.Sprintf("战力 %d 不足 %d，%s 侥幸获胜!", out.FinalPower, campaign.RequiredPower, campaign.Name))
	} else {
		out.Log = append(out.Log, fmt.Sprintf("战力 %d，%s 大捷!", out.FinalPower, campaign.Name))
	}

	return out, nil
}

// GainExp adds exp and levels up while exp reaches level*perLevel, recomputing
// the threshold after each level.
func GainExp(level, exp, gain, perLevel int) (int, int) {
	if level < 1 {
		level = 1
	}
	if perLevel <= 0 {
		return level, exp + gain
	}
	exp += gain
	for exp >= level*perLevel {
		exp -= level * perLevel
		level++
	}
	return level, exp
}
