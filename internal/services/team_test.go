package services

import (
	"testing"

	"sanguo/internal/datastore"
	"sanguo/internal/engine"

	"github.com/cockroachdb/errors"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToTeam(t *testing.T) {
	env := newTestEnv(t, smallCatalog, func(r *engine.Rules) {
		fixedRules(r)
		r.Team.MaxSize = 2
	})
	team := do.MustInvoke[*ServiceTeam](env.container)
	env.player(t, 1)

	starter := env.starterOwnedID(t, 1)
	require.NoError(t, team.AddToTeam(env.ctx, 1, starter))

	copyOfStarter := env.grant(t, 1, "廖化")
	err := team.AddToTeam(env.ctx, 1, copyOfStarter)
	assert.True(t, errors.Is(err, engine.ErrDuplicateInTeam))

	require.NoError(t, team.AddToTeam(env.ctx, 1, env.grant(t, 1, "关羽")))

	err = team.AddToTeam(env.ctx, 1, env.grant(t, 1, "关平"))
	assert.True(t, errors.Is(err, engine.ErrTeamFull))
	assert.True(t, errors.Is(err, engine.ErrPrecondition))

	err = team.AddToTeam(env.ctx, 2, starter)
	assert.True(t, errors.Is(err, engine.ErrNotFound))

	members, err := datastore.GetTeam(env.ctx, env.db, 1)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	require.NoError(t, team.RemoveFromTeam(env.ctx, 1, starter))
	require.NoError(t, team.AddToTeam(env.ctx, 1, copyOfStarter))

	err = team.RemoveFromTeam(env.ctx, 1, 9999)
	assert.True(t, errors.Is(err, engine.ErrGeneralNotFound))
}

func TestAddToTeamUnknownGeneral(t *testing.T) {
	env := newSmallEnv(t)
	env.player(t, 1)
	env.player(t, 2)

	err := do.MustInvoke[*ServiceTeam](env.container).AddToTeam(env.ctx, 2, env.starterOwnedID(t, 1))
	assert.True(t, errors.Is(err, engine.ErrGeneralNotFound))
}

func TestAutoTeamPicksStrongestDistinct(t *testing.T) {
	env := newTestEnv(t, smallCatalog, func(r *engine.Rules) {
		fixedRules(r)
		r.Team.MaxSize = 3
	})
	team := do.MustInvoke[*ServiceTeam](env.container)
	env.player(t, 1)

	env.grant(t, 1, "曹植")
	env.grant(t, 1, "关羽")
	env.grant(t, 1, "关羽")
	env.grant(t, 1, "关平")

	picked, err := team.AutoTeam(env.ctx, 1)
	require.NoError(t, err)
	names := make([]string, len(picked))
	for i, og := range picked {
		names[i] = og.General.Name
		assert.True(t, og.IsInTeam)
	}
	assert.Equal(t, []string{"关羽", "关平", "廖化"}, names)

	members, err := datastore.GetTeam(env.ctx, env.db, 1)
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestEvolveTwiceSpendsShards(t *testing.T) {
	env := newSmallEnv(t)
	team := do.MustInvoke[*ServiceTeam](env.container)
	env.player(t, 1)
	require.NoError(t, do.MustInvoke[*ServicePlayer](env.container).SetCurrency(env.ctx, 1, 0, 20))
	starter := env.starterOwnedID(t, 1)

	_, err := team.Evolve(env.ctx, 1, starter)
	assert.True(t, errors.Is(err, engine.ErrNotEnoughShards))

	_, err = do.MustInvoke[*ServiceGacha](env.container).DrawSingle(env.ctx, 1)
	require.NoError(t, err)
	_, err = do.MustInvoke[*ServiceGacha](env.container).DrawSingle(env.ctx, 1)
	require.NoError(t, err)

	first, err := team.Evolve(env.ctx, 1, starter)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Evolution)
	assert.Equal(t, 10, first.Shards)

	second, err := team.Evolve(env.ctx, 1, starter)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Evolution)
	assert.Equal(t, 0, second.Shards)

	_, err = team.Evolve(env.ctx, 1, starter)
	assert.True(t, errors.Is(err, engine.ErrNotEnoughShards))

	roster := env.roster(t, 1)
	require.Len(t, roster, 1)
	assert.Equal(t, 2, roster[0].Evolution)
	// 218 * 1.2
	assert.Equal(t, 261, roster[0].Power)
}

func TestEquipSwapsSameSlot(t *testing.T) {
	env := newSmallEnv(t)
	team := do.MustInvoke[*ServiceTeam](env.container)
	players := do.MustInvoke[*ServicePlayer](env.container)
	env.player(t, 1)
	starter := env.starterOwnedID(t, 1)

	sword, err := datastore.GetUnequippedEquipments(env.ctx, env.db, 1)
	require.NoError(t, err)
	require.Len(t, sword, 1)
	axe, err := players.GrantEquipment(env.ctx, 1, env.equipmentID(t, "大斧"))
	require.NoError(t, err)

	require.NoError(t, team.Equip(env.ctx, 1, starter, sword[0].ID))
	require.NoError(t, team.Equip(env.ctx, 1, starter, sword[0].ID))
	require.NoError(t, team.Equip(env.ctx, 1, starter, axe.ID))

	worn, err := datastore.GetEquipmentsOfGenerals(env.ctx, env.db, []int64{starter})
	require.NoError(t, err)
	require.Len(t, worn, 1)
	assert.Equal(t, axe.ID, worn[0].ID)

	other := env.grant(t, 1, "关羽")
	err = team.Equip(env.ctx, 1, other, axe.ID)
	assert.True(t, errors.Is(err, engine.ErrEquipmentInUse))

	err = team.Equip(env.ctx, 1, other, 9999)
	assert.True(t, errors.Is(err, engine.ErrEquipmentNotFound))

	require.NoError(t, team.Unequip(env.ctx, 1, starter))
	free, err := datastore.GetUnequippedEquipments(env.ctx, env.db, 1)
	require.NoError(t, err)
	assert.Len(t, free, 2)
}

func TestAutoEquipTakesBestPerSlot(t *testing.T) {
	env := newSmallEnv(t)
	team := do.MustInvoke[*ServiceTeam](env.container)
	players := do.MustInvoke[*ServicePlayer](env.container)
	env.player(t, 1)
	starter := env.starterOwnedID(t, 1)

	for _, name := range []string{"大斧", "皮甲", "赤兔马"} {
		_, err := players.GrantEquipment(env.ctx, 1, env.equipmentID(t, name))
		require.NoError(t, err)
	}

	equipped, err := team.AutoEquip(env.ctx, 1, starter)
	require.NoError(t, err)
	names := make([]string, 0, len(equipped))
	for _, e := range equipped {
		names = append(names, e.Equipment.Name)
	}
	assert.ElementsMatch(t, []string{"大斧", "皮甲", "赤兔马"}, names)

	free, err := datastore.GetUnequippedEquipments(env.ctx, env.db, 1)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, env.equipmentID(t, "铁剑"), free[0].EquipmentID)

	roster := env.roster(t, 1)
	require.Len(t, roster, 1)
	assert.Equal(t, 218+15+10+40, roster[0].Power)
}
