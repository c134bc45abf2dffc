package engine

// BondTier is one requirement level of a bond family. Need of 0 means every
// listed member must be present.
type BondTier struct {
	Need  int
	Bonus int // percentage points added to the multiplier
}

type Bond struct {
	Name    string
	Members []string
	// Tiers are ordered strongest first; only the first satisfied one counts.
	Tiers []BondTier
}

// FactionBond applies when enough members share a country and no other bond
// has raised the multiplier.
type FactionBond struct {
	Name  string
	Need  int
	Bonus int
}

type BondTable struct {
	Bonds   []Bond
	Faction FactionBond
}

type ActiveBond struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
	Bonus   int    `json:"bonus"`
}

type BondResult struct {
	Active []ActiveBond `json:"active"`
	Bonus  int          `json:"bonus"`
}

func (r BondResult) Multiplier() float64 {
	return 1 + float64(r.Bonus)/100
}

// Apply returns floor(raw * multiplier).
func (r BondResult) Apply(raw int) int {
	return raw * (100 + r.Bonus) / 100
}

var DefaultBondTable = BondTable{
	Bonds: []Bond{
		{
			Name:    "曹氏宗亲",
			Members: []string{"曹操", "夏侯惇", "夏侯渊", "曹仁", "曹洪"},
			Tiers:   []BondTier{{Need: 0, Bonus: 20}, {Need: 3, Bonus: 12}},
		},
		{
			Name:    "五子良将",
			Members: []string{"张辽", "张郃", "徐晃", "于禁", "乐进"},
			Tiers:   []BondTier{{Need: 5, Bonus: 25}, {Need: 3, Bonus: 18}},
		},
		{
			Name:    "桃园结义",
			Members: []string{"刘备", "关羽", "张飞"},
			Tiers:   []BondTier{{Need: 0, Bonus: 25}},
		},
		{
			Name:    "五虎上将",
			Members: []string{"关羽", "张飞", "赵云", "马超", "黄忠"},
			Tiers:   []BondTier{{Need: 5, Bonus: 30}, {Need: 3, Bonus: 18}},
		},
		{
			Name:    "江东四英杰",
			Members: []string{"周瑜", "鲁肃", "吕蒙", "陆逊"},
			Tiers:   []BondTier{{Need: 4, Bonus: 40}},
		},
		{
			Name:    "西凉军",
			Members: []string{"董卓", "吕布", "华雄", "李傕", "郭汜"},
			Tiers:   []BondTier{{Need: 5, Bonus: 25}},
		},
	},
	Faction: FactionBond{Name: "同心协力", Need: 3, Bonus: 10},
}

func EvaluateBonds(team []Member) BondResult {
	return DefaultBondTable.Evaluate(team)
}

func (t BondTable) Evaluate(team []Member) BondResult {
	names := make(map[string]bool, len(team))
	countries := make(map[string]int, len(team))
	for _, m := range team {
		names[m.Name] = true
		countries[m.Country]++
	}

	result := BondResult{Active: []ActiveBond{}}
	for _, b := range t.Bonds {
		present := 0
		for _, n := range b.Members {
			if names[n] {
				present++
			}
		}

		for _, tier := range b.Tiers {
			need := tier.Need
			if need == 0 {
				need = len(b.Members)
			}
			if present >= need {
				result.Active = append(result.Active, ActiveBond{Name: b.Name, Members: need, Bonus: tier.Bonus})
				result.Bonus += tier.Bonus
				break
			}
		}
	}

	if result.Bonus == 0 && t.Faction.Need > 0 {
		for _, count := range countries {
			if count >= t.Faction.Need {
				result.Active = append(result.Active, ActiveBond{Name: t.Faction.Name, Members: count, Bonus: t.Faction.Bonus})
				result.Bonus += t.Faction.Bonus
				break
			}
		}
	}

	return result
}
