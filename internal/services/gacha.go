package services

import (
	"context"
	"time"

	"sanguo/internal/datastore"
	"sanguo/internal/engine"
	"sanguo/internal/interfaces"
	"sanguo/internal/models"
	"sanguo/internal/pkg/limiter"
	"sanguo/internal/pkg/locker"
	"sanguo/internal/pkg/metrics"

	"github.com/cockroachdb/errors"
	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceGacha struct {
	container  *do.Injector
	postgresDB *bun.DB
	locker     locker.Locker
	limiter    interfaces.Limiter
	logger     *zap.Logger
	rules      engine.Rules

	serviceCatalog *ServiceCatalog
}

func NewServiceGacha(container *do.Injector) (*ServiceGacha, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	l, err := do.Invoke[locker.Locker](container)
	if err != nil {
		return nil, err
	}

	lim, err := do.Invoke[interfaces.Limiter](container)
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

	return &ServiceGacha{container, postgresDB, l, lim, logger.Named("gacha"), rules, serviceCatalog}, nil
}

func (service *ServiceGacha) DrawSingle(ctx context.Context, playerID int64) (*models.DrawResult, error) {
	return service.draw(ctx, playerID, 1, service.rules.Gacha.SingleCost)
}

func (service *ServiceGacha) DrawTen(ctx context.Context, playerID int64) (*models.DrawResult, error) {
	return service.draw(ctx, playerID, service.rules.Gacha.MultiCount, service.rules.Gacha.MultiCost)
}

// draw charges cost once and performs n draws. Charge, draws, shards and pity
// commit together or not at all.
func (service *ServiceGacha) draw(ctx context.Context, playerID int64, n, cost int) (*models.DrawResult, error) {
	err := service.limiter.Allow(ctx, LimitKeyDraw(playerID), redis_rate.PerMinute(DRAW_RATE_LIMIT_PER_MINUTE))
	if err != nil {
		if errors.Is(err, limiter.ErrRateLimited) {
			return nil, errorx.Wrap(err, errorx.RateLimiting)
		}
		return nil, err
	}

	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rng := engine.NewRand()
	rules := service.rules.Gacha
	result := &models.DrawResult{Draws: make([]*models.DrawItem, 0, n)}

	err = inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		player, err := getPlayer(ctx, tx, playerID)
		if err != nil {
			return err
		}

		charged, err := datastore.ChargeTokens(ctx, tx, playerID, cost)
		if err != nil {
			return err
		}
		if !charged {
			return errors.Wrapf(engine.ErrNotEnoughTokens, "have %d need %d", player.Tokens, cost)
		}

		owned, err := datastore.GetOwnedGeneralIDs(ctx, tx, playerID)
		if err != nil {
			return err
		}

		draws, pity, err := engine.DrawMany(player.PityCounter, n, owned, catalog.Pool(rng), rng, rules)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, d := range draws {
			general, _ := catalog.General(d.GeneralID)
			item := &models.DrawItem{General: general, Duplicate: d.Duplicate}
			if d.Duplicate {
				if err := datastore.IncrementShard(ctx, tx, playerID, d.GeneralID, rules.DuplicateShards); err != nil {
					return err
				}
				item.Shards = rules.DuplicateShards
			} else {
				og := &models.OwnedGeneral{PlayerID: playerID, GeneralID: d.GeneralID, Level: 1, CreatedAt: now}
				if err := datastore.InsertOwnedGeneral(ctx, tx, og); err != nil {
					return err
				}
				item.OwnedGeneralID = og.ID
			}
			result.Draws = append(result.Draws, item)
		}

		if err := datastore.SetPlayerPity(ctx, tx, playerID, pity); err != nil {
			return err
		}
		result.Tokens = player.Tokens - cost
		result.PityCounter = pity
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range result.Draws {
		metrics.ObserveDraw(item.General.Stars, item.Duplicate)
	}
	service.logger.Info("draw",
		zap.Int64("player", playerID),
		zap.Int("count", n),
		zap.Int("cost", cost),
		zap.Int("pity", result.PityCounter),
	)
	return result, nil
}
