package engine

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanJoin(t *testing.T) {
	assert.NoError(t, CanJoin(nil, 1, 5))
	assert.NoError(t, CanJoin([]int64{1, 2, 3, 4}, 5, 5))

	err := CanJoin([]int64{1, 2, 3, 4, 5}, 6, 5)
	assert.True(t, errors.Is(err, ErrTeamFull))

	err = CanJoin([]int64{1, 2}, 2, 5)
	assert.True(t, errors.Is(err, ErrDuplicateInTeam))
	assert.True(t, errors.Is(err, ErrPrecondition))
}

func TestAutoTeam(t *testing.T) {
	roster := []Member{
		{ID: 1, GeneralID: 10, Stats: Stats{Str: 100}, Level: 1},
		{ID: 2, GeneralID: 10, Stats: Stats{Str: 100}, Level: 5},
		{ID: 3, GeneralID: 11, Stats: Stats{Str: 90}, Level: 1, EquipBonus: []int{500}},
		{ID: 4, GeneralID: 12, Stats: Stats{Str: 80}, Level: 2},
		{ID: 5, GeneralID: 13, Stats: Stats{Str: 70}, Level: 1},
		{ID: 6, GeneralID: 14, Stats: Stats{Str: 60}, Level: 1},
		{ID: 7, GeneralID: 15, Stats: Stats{Str: 50}, Level: 1},
	}

	got := AutoTeam(roster, 5)
	require.Len(t, got, 5)

	ids := make([]int64, len(got))
	for i, m := range got {
		ids[i] = m.ID
	}
	// the level 5 copy wins over the level 1 copy; equipment is not counted
	assert.Equal(t, []int64{2, 4, 3, 5, 6}, ids)
}

func TestAutoTeamSmallRoster(t *testing.T) {
	got := AutoTeam([]Member{{ID: 1, GeneralID: 1, Level: 1}}, 5)
	assert.Len(t, got, 1)
	assert.Empty(t, AutoTeam(nil, 5))
}

func TestEvolveTwice(t *testing.T) {
	left, err := Evolve(10, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, left)

	left, err = Evolve(left, 10)
	assert.True(t, errors.Is(err, ErrNotEnoughShards))
	assert.True(t, errors.Is(err, ErrPrecondition))
	assert.Equal(t, 0, left)
}

func TestBestPerSlot(t *testing.T) {
	items := []Item{
		{ID: 1, Slot: SlotWeapon, Bonus: 10, Stars: 2},
		{ID: 2, Slot: SlotWeapon, Bonus: 20, Stars: 3},
		{ID: 3, Slot: SlotArmor, Bonus: 20, Stars: 3},
		{ID: 4, Slot: SlotArmor, Bonus: 20, Stars: 4},
		{ID: 5, Slot: SlotArmor, Bonus: 20, Stars: 4},
		{ID: 6, Slot: Slot("boots"), Bonus: 99, Stars: 5},
	}

	got := BestPerSlot(items)

	bySlot := map[Slot]int64{}
	for _, it := range got {
		bySlot[it.Slot] = it.ID
	}
	assert.Equal(t, map[Slot]int64{SlotWeapon: 2, SlotArmor: 4}, bySlot)
	assert.Empty(t, BestPerSlot(nil))
}
