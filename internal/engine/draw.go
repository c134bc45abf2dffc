package engine

// Pool picks one catalog general of a tier.
type Pool interface {
	Pick(tier int) (int64, error)
}

type Draw struct {
	GeneralID int64 `json:"general_id"`
	Tier      int   `json:"tier"`
	Pity      int   `json:"pity"`
	Duplicate bool  `json:"duplicate"`
}

// SelectTier maps a roll in [0, 100) and the pity counter before the draw to a
// tier and the counter after it.
func SelectTier(pity int, roll float64, rules GachaRules) (int, int) {
	next := pity + 1
	if next >= rules.PityThreshold || roll < rules.TopRate {
		return rules.TopTier, 0
	}
	if roll < rules.HighRate {
		return rules.HighTier, next
	}
	return rules.BaseTier, next
}

// DrawOne performs a single draw. owned is consulted for duplicate detection
// and updated with the result.
func DrawOne(pity int, owned map[int64]bool, pool Pool, r Roller, rules GachaRules) (Draw, error) {
	tier, next := SelectTier(pity, r.Float64()*100, rules)

	id, err := pool.Pick(tier)
	if err != nil {
		return Draw{}, err
	}

	d := Draw{GeneralID: id, Tier: tier, Pity: next, Duplicate: owned[id]}
	owned[id] = true
	return d, nil
}

// DrawMany threads the pity counter through n single draws and returns the
// counter after the last one.
func DrawMany(pity, n int, owned map[int64]bool, pool Pool, r Roller, rules GachaRules) ([]Draw, int, error) {
	draws := make([]Draw, 0, n)
	for i := 0; i < n; i++ {
		d, err := DrawOne(pity, owned, pool, r, rules)
		if err != nil {
			return nil, 0, err
		}
		pity = d.Pity
		draws = append(draws, d)
	}
	return draws, pity, nil
}
