package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"sanguo/internal/config"
	"sanguo/internal/datastore"
	"sanguo/internal/engine"
	"sanguo/internal/interfaces"
	"sanguo/internal/models"
	"sanguo/internal/pkg/caching"
	"sanguo/internal/pkg/limiter"
	"sanguo/internal/pkg/locker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// smallCatalog has one general per drawable tier so tier rolls pin the
// result.
var smallCatalog = &config.Catalog{
	Generals: []config.GeneralSeed{
		{Name: "廖化", Stars: 3, Str: 78, Int: 65, Ldr: 75, Country: "蜀", Skill: "猛击"},
		{Name: "关平", Stars: 4, Str: 80, Int: 70, Ldr: 75, Country: "蜀"},
		{Name: "关羽", Stars: 5, Str: 98, Int: 75, Ldr: 95, Country: "蜀", Skill: "武圣显灵"},
		{Name: "曹植", Stars: 2, Str: 40, Int: 92, Ldr: 30, Country: "魏"},
	},
	Equipment: []config.EquipmentSeed{
		{Name: "铁剑", Type: "weapon", StatBonus: 10, Stars: 2},
		{Name: "大斧", Type: "weapon", StatBonus: 15, Stars: 3},
		{Name: "皮甲", Type: "armor", StatBonus: 10, Stars: 2},
		{Name: "赤兔马", Type: "treasure", StatBonus: 40, Stars: 5},
	},
	Campaigns: []config.CampaignSeed{
		{Name: "黄巾之乱", RequiredPower: 100, Gold: 100, Exp: 150},
		{Name: "五丈原", RequiredPower: 100000, Gold: 10000, Exp: 5000},
	},
}

// fixedRules removes every source of chance except the drop, which always
// happens.
func fixedRules(r *engine.Rules) {
	r.Gacha.TopRate = 0
	r.Gacha.HighRate = 0
	r.Battle.ProcBase = 0
	r.Battle.EscapeChance = 0
	r.Battle.DropChance = 1
}

type testEnv struct {
	ctx       context.Context
	db        *bun.DB
	container *do.Injector
	catalog   *Catalog
	rules     engine.Rules
}

func newTestEnv(t *testing.T, seed *config.Catalog, tweak func(*engine.Rules)) *testEnv {
	t.Helper()
	ctx := context.Background()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })
	require.NoError(t, datastore.Migrate(ctx, db))

	rules := engine.DefaultRules()
	if tweak != nil {
		tweak(&rules)
	}

	cache := caching.NewCacheLocal(1000, time.Minute)
	injector := do.New()
	do.ProvideValue(injector, db)
	do.ProvideNamedValue(injector, "db-readonly", db)
	// never dialled: only the scoring half of the leaderboard is exercised
	do.ProvideNamedValue[redis.UniversalClient](injector, "redis-db", redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	do.ProvideValue[caching.Cache](injector, cache)
	do.ProvideValue[caching.ReadOnlyCache](injector, cache)
	do.ProvideValue[locker.Locker](injector, locker.NewLocal())
	do.ProvideValue[interfaces.Limiter](injector, limiter.Unlimited{})
	do.ProvideValue[*zap.Logger](injector, zaptest.NewLogger(t))
	do.ProvideValue(injector, rules)
	Provide(injector)

	serviceCatalog := do.MustInvoke[*ServiceCatalog](injector)
	require.NoError(t, serviceCatalog.Seed(ctx, seed))
	catalog, err := serviceCatalog.Snapshot(ctx)
	require.NoError(t, err)

	return &testEnv{ctx, db, injector, catalog, rules}
}

func newSmallEnv(t *testing.T) *testEnv {
	return newTestEnv(t, smallCatalog, fixedRules)
}

func (e *testEnv) player(t *testing.T, id int64) *models.Player {
	t.Helper()
	player, err := do.MustInvoke[*ServicePlayer](e.container).FindOrCreatePlayer(e.ctx, &models.PlayerFromAuth{ID: id, Name: "player"})
	require.NoError(t, err)
	return player
}

func (e *testEnv) reload(t *testing.T, id int64) *models.Player {
	t.Helper()
	player, err := datastore.GetPlayerByID(e.ctx, e.db, id)
	require.NoError(t, err)
	return player
}

func (e *testEnv) generalID(t *testing.T, name string) int64 {
	t.Helper()
	g, ok := e.catalog.GeneralByName(name)
	require.True(t, ok, name)
	return g.ID
}

func (e *testEnv) equipmentID(t *testing.T, name string) int64 {
	t.Helper()
	eq, ok := e.catalog.EquipmentByName(name)
	require.True(t, ok, name)
	return eq.ID
}

func (e *testEnv) campaignID(t *testing.T, name string) int64 {
	t.Helper()
	for _, c := range e.catalog.Campaigns {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("campaign %s not seeded", name)
	return 0
}

func (e *testEnv) roster(t *testing.T, playerID int64) []*models.OwnedGeneral {
	t.Helper()
	roster, err := do.MustInvoke[*ServicePlayer](e.container).Roster(e.ctx, playerID)
	require.NoError(t, err)
	return roster
}

// grant adds a catalog general to the roster and returns its owned id.
func (e *testEnv) grant(t *testing.T, playerID int64, name string) int64 {
	t.Helper()
	og, err := do.MustInvoke[*ServicePlayer](e.container).GrantGeneral(e.ctx, playerID, e.generalID(t, name))
	require.NoError(t, err)
	return og.ID
}

func (e *testEnv) starterOwnedID(t *testing.T, playerID int64) int64 {
	t.Helper()
	og, err := datastore.GetOwnedGeneralByGeneralID(e.ctx, e.db, playerID, e.generalID(t, e.rules.Starter.General))
	require.NoError(t, err)
	return og.ID
}
