package engine

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noBondFive() []Member {
	return []Member{
		member(1, "曹植", "魏", 200),
		member(2, "法正", "蜀", 200),
		member(3, "阚泽", "吴", 200),
		member(4, "孔融", "群", 200),
		member(5, "满宠", "魏", 200),
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestResolveWinsOnExactPower(t *testing.T) {
	r := NewResolver(DefaultRules())
	dice := script(t, append(repeat(0.99, 5), 0.99)...)

	out, err := r.Resolve(noBondFive(), Campaign{Name: "黄巾之乱", RequiredPower: 1000, Gold: 100, Exp: 50}, dice)
	require.NoError(t, err)

	assert.True(t, out.Win)
	assert.False(t, out.Escaped)
	assert.Equal(t, 1000, out.RawPower)
	assert.Equal(t, 1000, out.FinalPower)
	assert.Empty(t, out.Bonds.Active)
	assert.Equal(t, 100, out.Gold)
	assert.False(t, out.Drop)
	require.Len(t, out.Progress, 5)
	assert.Equal(t, Progress{ID: 1, Level: 1, Exp: 50}, out.Progress[0])
	assert.Empty(t, out.LevelUps)
	// five proc rolls and the drop roll, no escape roll
	assert.Equal(t, 6, dice.used())
}

func TestResolveEscapeRoll(t *testing.T) {
	r := NewResolver(DefaultRules())
	dice := script(t, append(repeat(0.99, 5), 0.1, 0.1)...)

	out, err := r.Resolve(noBondFive(), Campaign{Name: "五丈原", RequiredPower: 12000, Gold: 10000, Exp: 5000}, dice)
	require.NoError(t, err)

	assert.True(t, out.Win)
	assert.True(t, out.Escaped)
	assert.True(t, out.Drop)
	assert.Equal(t, 10000, out.Gold)
	assert.Len(t, out.LevelUps, 5)
	assert.Equal(t, 7, dice.used())
}

func TestResolveLoss(t *testing.T) {
	r := NewResolver(DefaultRules())
	dice := script(t, append(repeat(0.99, 5), 0.5)...)

	out, err := r.Resolve(noBondFive(), Campaign{Name: "赤壁之战", RequiredPower: 3000, Gold: 2000, Exp: 1000}, dice)
	require.NoError(t, err)

	assert.False(t, out.Win)
	assert.Zero(t, out.Gold)
	assert.Zero(t, out.Exp)
	assert.Empty(t, out.Progress)
	assert.Empty(t, out.LevelUps)
	assert.False(t, out.Drop)
	assert.Equal(t, 6, dice.used())
	assert.NotEmpty(t, out.Log)
}

func TestResolveSkillProc(t *testing.T) {
	r := NewResolver(DefaultRules())
	lucky := member(1, "曹植", "魏", 200)
	lucky.Stats.Luck = 100
	named := member(2, "关羽", "蜀", 200)
	named.Skill = "武圣显灵"

	// lucky procs at 0.3 because its chance is 0.2 + 100/500
	dice := script(t, 0.3, 0.1, 0.99)
	out, err := r.Resolve([]Member{lucky, named}, Campaign{RequiredPower: 1}, dice)
	require.NoError(t, err)

	assert.Equal(t, 280+280, out.RawPower)
	assert.Contains(t, out.Log, "曹植 发动了 【奋力一击】! 战力激增!")
	assert.Contains(t, out.Log, "关羽 发动了 【武圣显灵】! 战力激增!")
}

func TestResolveAppliesBonds(t *testing.T) {
	r := NewResolver(DefaultRules())
	peach := []Member{
		member(1, "刘备", "蜀", 200),
		member(2, "关羽", "蜀", 200),
		member(3, "张飞", "蜀", 200),
	}

	out, err := r.Resolve(peach, Campaign{RequiredPower: 700}, script(t, 0.99, 0.99, 0.99, 0.99))
	require.NoError(t, err)

	assert.Equal(t, 600, out.RawPower)
	assert.Equal(t, 750, out.FinalPower)
	assert.True(t, out.Win)
	assert.False(t, out.Escaped)
	assert.InDelta(t, 1.25, out.Bonds.Multiplier(), 1e-9)
}

func TestResolveRejectsBadTeams(t *testing.T) {
	r := NewResolver(DefaultRules())

	_, err := r.Resolve(nil, Campaign{RequiredPower: 1}, script(t))
	assert.True(t, errors.Is(err, ErrEmptyTeam))
	assert.True(t, errors.Is(err, ErrPrecondition))

	six := append(noBondFive(), member(6, "刘禅", "蜀", 10))
	_, err = r.Resolve(six, Campaign{RequiredPower: 1}, script(t))
	assert.True(t, errors.Is(err, ErrTeamFull))

	dup := noBondFive()
	dup[1].GeneralID = dup[0].GeneralID
	_, err = r.Resolve(dup, Campaign{RequiredPower: 1}, script(t))
	assert.True(t, errors.Is(err, ErrDuplicateInTeam))
}

func TestEvaluateTeamPower(t *testing.T) {
	r := NewResolver(DefaultRules())

	tp, err := r.Evaluate(noBondFive())
	require.NoError(t, err)
	assert.Equal(t, 1000, tp.RawPower)
	assert.Equal(t, 1000, tp.FinalPower)
	assert.InDelta(t, 1.0, tp.Multiplier, 1e-9)

	_, err = r.Evaluate(nil)
	assert.True(t, errors.Is(err, ErrPrecondition))
}

func TestGainExp(t *testing.T) {
	tests := []struct {
		level, exp, gain int
		wantLevel        int
		wantExp          int
	}{
		{1, 0, 50, 1, 50},
		{1, 50, 50, 2, 0},
		{1, 0, 1000, 5, 0},
		{3, 250, 100, 4, 50},
		{10, 0, 999, 10, 999},
	}

	for _, tt := range tests {
		level, exp := GainExp(tt.level, tt.exp, tt.gain, 100)
		assert.Equal(t, tt.wantLevel, level)
		assert.Equal(t, tt.wantExp, exp)
		assert.Less(t, exp, level*100)
	}
}
