package engine

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays fixed rolls and fails the test when it runs dry.
type scripted struct {
	t     *testing.T
	rolls []float64
	next  int
}

func script(t *testing.T, rolls ...float64) *scripted {
	return &scripted{t: t, rolls: rolls}
}

func (s *scripted) Float64() float64 {
	require.Less(s.t, s.next, len(s.rolls), "ran out of scripted rolls")
	v := s.rolls[s.next]
	s.next++
	return v
}

func (s *scripted) used() int {
	return s.next
}

func member(id int64, name, country string, total int) Member {
	return Member{
		ID:        id,
		GeneralID: id,
		Name:      name,
		Country:   country,
		Stats:     Stats{Str: total / 2, Int: total - total/2},
		Level:     1,
	}
}

func TestErrorClasses(t *testing.T) {
	cases := []struct {
		err   error
		class error
	}{
		{ErrNotEnoughTokens, ErrInsufficientResource},
		{ErrEmptyTeam, ErrPrecondition},
		{ErrTeamFull, ErrPrecondition},
		{ErrDuplicateInTeam, ErrPrecondition},
		{ErrNotEnoughShards, ErrPrecondition},
		{ErrGeneralNotFound, ErrNotFound},
		{ErrCampaignNotFound, ErrNotFound},
	}

	for _, c := range cases {
		wrapped := errors.Wrapf(c.err, "player %d", 7)
		assert.True(t, errors.Is(wrapped, c.class), c.err.Error())
		assert.True(t, errors.Is(wrapped, c.err), c.err.Error())
	}

	assert.False(t, errors.Is(ErrEmptyTeam, ErrNotFound))
	assert.False(t, errors.Is(ErrNotEnoughTokens, ErrPrecondition))
}

func TestDefaultRulesMatchGameNumbers(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, 60, rules.Gacha.PityThreshold)
	assert.Equal(t, 10, rules.Gacha.DuplicateShards)
	assert.Equal(t, 10, rules.Gacha.MultiCost)
	assert.Equal(t, 5, rules.Team.MaxSize)
	assert.Equal(t, 10, rules.Team.EvolveCost)
	assert.Equal(t, 40, rules.Battle.ProcBoostPercent)
	assert.InDelta(t, 0.2, rules.Battle.EscapeChance, 1e-9)
}

func TestNewRandIsUsable(t *testing.T) {
	r := NewRand()
	for i := 0; i < 100; i++ {
		v := r.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestChance(t *testing.T) {
	assert.True(t, Chance(script(t, 0.19), 0.2))
	assert.False(t, Chance(script(t, 0.2), 0.2))
	assert.False(t, Chance(script(t, 0.0), 0))
}

func randomMember(rng *rand.Rand) Member {
	return Member{
		Stats:      Stats{Str: rng.Intn(101), Int: rng.Intn(101), Ldr: rng.Intn(101), Luck: rng.Intn(101)},
		Level:      1 + rng.Intn(60),
		Evolution:  rng.Intn(10),
		EquipBonus: []int{rng.Intn(60), rng.Intn(60)},
	}
}
