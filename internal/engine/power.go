package engine

type Stats struct {
	Str  int `json:"str"`
	Int  int `json:"int"`
	Ldr  int `json:"ldr"`
	Luck int `json:"luck"`
}

// Member is the battle view of an owned general.
type Member struct {
	ID         int64
	GeneralID  int64
	Name       string
	Country    string
	Skill      string
	Stats      Stats
	Level      int
	Exp        int
	Evolution  int
	EquipBonus []int
}

// BasePower is the attribute part of Power, ignoring equipment.
func BasePower(m Member) int {
	base := m.Stats.Str + m.Stats.Int + m.Stats.Ldr
	// (1 + 0.1*evolution) kept in tenths so the floor is exact
	p := base * m.Level * (10 + m.Evolution) / 10
	if p < 0 {
		return 0
	}
	return p
}

// Power computes floor((str+int+ldr) * level * (1 + 0.1*evolution) + equipment bonus).
func Power(m Member) int {
	p := BasePower(m)
	for _, b := range m.EquipBonus {
		if b > 0 {
			p += b
		}
	}
	return p
}
