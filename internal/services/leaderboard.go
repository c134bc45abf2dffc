package services

import (
	"context"
	"sort"

	"sanguo/internal/datastore"
	"sanguo/internal/datastore/redis_store"
	"sanguo/internal/engine"
	"sanguo/internal/models"
	"sanguo/internal/pkg/locker"
	"sanguo/internal/pkg/metrics"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

const leaderboardPageSize = 500

type ServiceLeaderboard struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	readonlyPostgresDB *bun.DB
	locker             locker.Locker
	logger             *zap.Logger
	resolver           *engine.Resolver

	serviceCatalog *ServiceCatalog
	serviceConfig  *ServiceConfig
}

func NewServiceLeaderboard(container *do.Injector) (*ServiceLeaderboard, error) {
	db, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	l, err := do.Invoke[locker.Locker](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	rules, err := do.Invoke[engine.Rules](container)
	if err != nil {
		return nil, err
	}

	serviceCatalog, err := do.Invoke[*ServiceCatalog](container)
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceLeaderboard{
		container:          container,
		redisDB:            db,
		readonlyPostgresDB: readonlyPostgresDB,
		locker:             l,
		logger:             logger.Named("leaderboard"),
		resolver:           engine.NewResolver(rules),
		serviceCatalog:     serviceCatalog,
		serviceConfig:      serviceConfig,
	}, nil
}

// Scores computes every player's team power, without procs, highest first.
// Players without a team are left out.
func (service *ServiceLeaderboard) Scores(ctx context.Context) ([]*models.LeaderboardItem, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	db := service.readonlyPostgresDB
	var items []*models.LeaderboardItem
	for offset := 0; ; offset += leaderboardPageSize {
		ids, err := datastore.GetPlayerIDs(ctx, db, leaderboardPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, id := range ids {
			item, err := service.score(ctx, db, catalog, id)
			if err != nil {
				return nil, errors.Wrapf(err, "player %d", id)
			}
			if item != nil {
				items = append(items, item)
			}
		}

		if len(ids) < leaderboardPageSize {
			break
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].PlayerID < items[j].PlayerID
	})
	for i, item := range items {
		item.Rank = i + 1
	}
	return items, nil
}

func (service *ServiceLeaderboard) score(ctx context.Context, db bun.IDB, catalog *Catalog, playerID int64) (*models.LeaderboardItem, error) {
	team, err := datastore.GetTeam(ctx, db, playerID)
	if err != nil || len(team) == 0 {
		return nil, err
	}

	members, err := hydrate(ctx, db, catalog, team)
	if err != nil {
		return nil, err
	}
	power, err := service.resolver.Evaluate(members)
	if err != nil {
		// a team left invalid by an admin edit is skipped, not fatal
		if errors.Is(err, engine.ErrPrecondition) {
			return nil, nil
		}
		return nil, err
	}

	player, err := datastore.GetPlayerByID(ctx, db, playerID)
	if err != nil {
		return nil, err
	}
	return &models.LeaderboardItem{Name: player.Name, PlayerID: playerID, Score: float64(power.FinalPower)}, nil
}

// Refresh recomputes the power board. Concurrent runs are serialized.
func (service *ServiceLeaderboard) Refresh(ctx context.Context) error {
	release, err := service.locker.Obtain(ctx, LockKeyLeaderboard())
	if err != nil {
		return err
	}
	defer release()

	items, err := service.Scores(ctx)
	if err != nil {
		return err
	}

	if err := redis_store.ReplaceLeaderboard(ctx, service.redisDB, LEADERBOARD_POWER, items); err != nil {
		return err
	}

	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_LEADERBOARD_LIMIT, LEADERBOARD_DEFAULT_LIMIT)
	top := items
	if len(top) > limit {
		top = top[:limit]
	}
	if err := redis_store.SetLeaderboardSnapshot(ctx, service.redisDB, LEADERBOARD_POWER, top, CACHE_TTL_1_HOUR); err != nil {
		return err
	}

	metrics.SetLeaderboardPlayers(len(items))
	service.logger.Info("leaderboard refreshed", zap.Int("players", len(items)))
	return nil
}

func (service *ServiceLeaderboard) GetPowerLeaderboard(ctx context.Context, player *models.Player) (*models.LeaderboardResponse, error) {
	limit, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_LEADERBOARD_LIMIT, LEADERBOARD_DEFAULT_LIMIT)

	top, err := redis_store.GetLeaderboardSnapshot(ctx, service.redisDB, LEADERBOARD_POWER)
	if errors.Is(err, redis.Nil) {
		top, err = redis_store.GetLeaderboard(ctx, service.redisDB, LEADERBOARD_POWER, limit)
	}
	if err != nil {
		return nil, err
	}
	for _, item := range top {
		item.Name = censorName(item.Name)
	}

	me, err := redis_store.GetRankWithScore(ctx, service.redisDB, LEADERBOARD_POWER, player.ID)
	if errors.Is(err, redis.Nil) {
		me, err = &models.LeaderboardItem{PlayerID: player.ID}, nil
	}
	if err != nil {
		return nil, err
	}
	me.Name = player.Name

	response := &models.LeaderboardResponse{Leaderboard: top, Me: me}
	if updatedAt, err := redis_store.GetLeaderboardUpdatedAt(ctx, service.redisDB, LEADERBOARD_POWER); err == nil {
		response.UpdatedAt = &updatedAt
	}
	return response, nil
}

func censorName(name string) string {
	runes := []rune(name)
	if len(runes) < 3 {
		return name
	}
	return string(runes[:1]) + "**" + string(runes[len(runes)-1:])
}
