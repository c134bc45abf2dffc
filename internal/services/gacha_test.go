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

func TestDrawSingleDuplicateBecomesShards(t *testing.T) {
	env := newSmallEnv(t)
	gacha := do.MustInvoke[*ServiceGacha](env.container)
	env.player(t, 1)

	result, err := gacha.DrawSingle(env.ctx, 1)
	require.NoError(t, err)
	require.Len(t, result.Draws, 1)
	assert.Equal(t, "廖化", result.Draws[0].General.Name)
	assert.True(t, result.Draws[0].Duplicate)
	assert.Equal(t, 10, result.Draws[0].Shards)
	assert.Equal(t, 9, result.Tokens)
	assert.Equal(t, 1, result.PityCounter)

	player := env.reload(t, 1)
	assert.Equal(t, 9, player.Tokens)
	assert.Equal(t, 1, player.PityCounter)

	roster := env.roster(t, 1)
	require.Len(t, roster, 1)
	assert.Equal(t, 10, roster[0].Shards)
}

func TestDrawTenChargesOnce(t *testing.T) {
	env := newSmallEnv(t)
	gacha := do.MustInvoke[*ServiceGacha](env.container)
	env.player(t, 1)

	result, err := gacha.DrawTen(env.ctx, 1)
	require.NoError(t, err)
	assert.Len(t, result.Draws, 10)
	assert.Equal(t, 0, result.Tokens)
	assert.Equal(t, 10, result.PityCounter)

	shards, err := datastore.GetShard(env.ctx, env.db, 1, env.generalID(t, "廖化"))
	require.NoError(t, err)
	assert.Equal(t, 100, shards)
}

func TestDrawNewGeneralJoinsRoster(t *testing.T) {
	env := newSmallEnv(t)
	gacha := do.MustInvoke[*ServiceGacha](env.container)
	env.player(t, 1)
	require.NoError(t, do.MustInvoke[*ServicePlayer](env.container).RemoveGeneral(env.ctx, 1, env.starterOwnedID(t, 1)))

	result, err := gacha.DrawSingle(env.ctx, 1)
	require.NoError(t, err)
	assert.False(t, result.Draws[0].Duplicate)
	assert.NotZero(t, result.Draws[0].OwnedGeneralID)

	roster := env.roster(t, 1)
	require.Len(t, roster, 1)
	assert.Equal(t, result.Draws[0].OwnedGeneralID, roster[0].ID)
	assert.Equal(t, 1, roster[0].Level)
}

func TestDrawInsufficientTokensChangesNothing(t *testing.T) {
	env := newSmallEnv(t)
	gacha := do.MustInvoke[*ServiceGacha](env.container)
	env.player(t, 1)
	require.NoError(t, do.MustInvoke[*ServicePlayer](env.container).SetCurrency(env.ctx, 1, 1000, 5))

	_, err := gacha.DrawTen(env.ctx, 1)
	assert.True(t, errors.Is(err, engine.ErrNotEnoughTokens))
	assert.True(t, errors.Is(err, engine.ErrInsufficientResource))

	player := env.reload(t, 1)
	assert.Equal(t, 5, player.Tokens)
	assert.Equal(t, 0, player.PityCounter)
	shards, err := datastore.GetShards(env.ctx, env.db, 1)
	require.NoError(t, err)
	assert.Empty(t, shards)

	_, err = gacha.DrawSingle(env.ctx, 99)
	assert.True(t, errors.Is(err, engine.ErrNotFound))
}

func TestDrawPityForcesTopTier(t *testing.T) {
	env := newSmallEnv(t)
	gacha := do.MustInvoke[*ServiceGacha](env.container)
	env.player(t, 1)
	require.NoError(t, datastore.SetPlayerPity(env.ctx, env.db, 1, env.rules.Gacha.PityThreshold-2))

	first, err := gacha.DrawSingle(env.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Draws[0].General.Stars)
	assert.Equal(t, env.rules.Gacha.PityThreshold-1, first.PityCounter)

	second, err := gacha.DrawSingle(env.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "关羽", second.Draws[0].General.Name)
	assert.False(t, second.Draws[0].Duplicate)
	assert.Equal(t, 0, second.PityCounter)
	assert.Equal(t, 0, env.reload(t, 1).PityCounter)
}

func TestDrawWithDefaultRatesStaysInDrawableTiers(t *testing.T) {
	env := newTestEnv(t, smallCatalog, nil)
	gacha := do.MustInvoke[*ServiceGacha](env.container)
	env.player(t, 1)
	require.NoError(t, do.MustInvoke[*ServicePlayer](env.container).SetCurrency(env.ctx, 1, 0, 100))

	for i := 0; i < 10; i++ {
		result, err := gacha.DrawTen(env.ctx, 1)
		require.NoError(t, err)
		for _, d := range result.Draws {
			assert.GreaterOrEqual(t, d.General.Stars, 3)
		}
	}
	assert.Equal(t, 0, env.reload(t, 1).Tokens)
}
