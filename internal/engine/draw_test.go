package engine

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tierPool hands out catalog ids tier*100+n, cycling through size ids per tier.
type tierPool struct {
	size  int
	calls map[int]int
}

func newTierPool(size int) *tierPool {
	return &tierPool{size: size, calls: map[int]int{}}
}

func (p *tierPool) Pick(tier int) (int64, error) {
	n := p.calls[tier] % p.size
	p.calls[tier]++
	return int64(tier*100 + n), nil
}

type emptyPool struct{}

func (emptyPool) Pick(int) (int64, error) {
	return 0, ErrEmptyCatalogTier
}

func TestSelectTier(t *testing.T) {
	rules := DefaultRules().Gacha

	tests := []struct {
		name     string
		pity     int
		roll     float64
		wantTier int
		wantPity int
	}{
		{"common roll", 0, 50, 3, 1},
		{"top roll", 10, 1.99, 5, 0},
		{"top boundary is exclusive", 10, 2, 4, 11},
		{"high roll", 10, 11.99, 4, 11},
		{"high boundary is exclusive", 10, 12, 3, 11},
		{"pity threshold forces top", 59, 99.9, 5, 0},
		{"one before threshold", 58, 99.9, 3, 59},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, pity := SelectTier(tt.pity, tt.roll, rules)
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.wantPity, pity)
		})
	}
}

func TestDrawPityMonotonicity(t *testing.T) {
	rules := DefaultRules().Gacha
	rng := rand.New(rand.NewSource(7))
	owned := map[int64]bool{}
	pool := newTierPool(3)

	pity := 0
	tops := 0
	for i := 0; i < 5000; i++ {
		d, err := DrawOne(pity, owned, pool, rng, rules)
		require.NoError(t, err)

		if d.Tier == rules.TopTier {
			tops++
			assert.Equal(t, 0, d.Pity)
		} else {
			assert.Equal(t, pity+1, d.Pity)
			assert.Contains(t, []int{rules.HighTier, rules.BaseTier}, d.Tier)
		}
		assert.GreaterOrEqual(t, d.Pity, 0)
		assert.Less(t, d.Pity, rules.PityThreshold)
		pity = d.Pity
	}
	assert.GreaterOrEqual(t, tops, 5000/rules.PityThreshold)
}

func TestDrawPityGuarantee(t *testing.T) {
	rules := DefaultRules().Gacha

	d, err := DrawOne(59, map[int64]bool{}, newTierPool(1), script(t, 0.999), rules)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Tier)
	assert.Equal(t, 0, d.Pity)
	assert.Equal(t, int64(500), d.GeneralID)
}

func TestDrawForcedCommonRoll(t *testing.T) {
	rules := DefaultRules().Gacha

	d, err := DrawOne(0, map[int64]bool{}, newTierPool(1), script(t, 0.5), rules)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Tier)
	assert.Equal(t, 1, d.Pity)
	assert.False(t, d.Duplicate)
}

func TestDrawDuplicate(t *testing.T) {
	rules := DefaultRules().Gacha
	owned := map[int64]bool{300: true}

	d, err := DrawOne(0, owned, newTierPool(1), script(t, 0.5), rules)
	require.NoError(t, err)
	assert.Equal(t, int64(300), d.GeneralID)
	assert.True(t, d.Duplicate)
}

func TestDrawManyThreadsPity(t *testing.T) {
	rules := DefaultRules().Gacha
	owned := map[int64]bool{}

	// ten common rolls starting at 55: the fifth draw reaches 60 and resets
	rolls := make([]float64, 10)
	for i := range rolls {
		rolls[i] = 0.5
	}
	draws, pity, err := DrawMany(55, 10, owned, newTierPool(2), script(t, rolls...), rules)
	require.NoError(t, err)
	require.Len(t, draws, 10)

	assert.Equal(t, []int{56, 57, 58, 59, 0, 1, 2, 3, 4, 5}, pityTrail(draws))
	assert.Equal(t, 5, draws[4].Tier)
	assert.Equal(t, 5, pity)

	// ids 300 and 301 alternate, so the third common draw is the first duplicate
	assert.False(t, draws[0].Duplicate)
	assert.False(t, draws[1].Duplicate)
	assert.True(t, draws[2].Duplicate)
	assert.False(t, draws[4].Duplicate)
	assert.True(t, owned[300])
	assert.True(t, owned[500])
}

func TestDrawManyStopsOnPoolError(t *testing.T) {
	rules := DefaultRules().Gacha

	draws, _, err := DrawMany(0, 10, map[int64]bool{}, emptyPool{}, script(t, 0.5), rules)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrecondition))
	assert.Nil(t, draws)
}

func pityTrail(draws []Draw) []int {
	out := make([]int, len(draws))
	for i, d := range draws {
		out[i] = d.Pity
	}
	return out
}
