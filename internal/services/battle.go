package services

import (
	"context"
	"database/sql"
	"math/rand"
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
	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

var ErrBattleReportNotFound = errors.Mark(errors.New("battle report not found"), engine.ErrNotFound)

type ServiceBattle struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	locker             locker.Locker
	limiter            interfaces.Limiter
	logger             *zap.Logger
	rules              engine.Rules
	resolver           *engine.Resolver

	serviceCatalog *ServiceCatalog
}

func NewServiceBattle(container *do.Injector) (*ServiceBattle, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
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

	return &ServiceBattle{
		container:          container,
		postgresDB:         postgresDB,
		readonlyPostgresDB: readonlyPostgresDB,
		locker:             l,
		limiter:            lim,
		logger:             logger.Named("battle"),
		rules:              rules,
		resolver:           engine.NewResolver(rules),
		serviceCatalog:     serviceCatalog,
	}, nil
}

// ResolveBattle fights campaignID with the player's current team. On a loss
// nothing but the report is written.
func (service *ServiceBattle) ResolveBattle(ctx context.Context, playerID, campaignID int64) (*models.BattleReport, error) {
	err := service.limiter.Allow(ctx, LimitKeyBattle(playerID), redis_rate.PerMinute(BATTLE_RATE_LIMIT_PER_MINUTE))
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
	campaign, ok := catalog.Campaign(campaignID)
	if !ok {
		return nil, errors.Wrapf(engine.ErrCampaignNotFound, "campaign %d", campaignID)
	}

	rng := engine.NewRand()
	var report *models.BattleReport

	err = inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getPlayer(ctx, tx, playerID); err != nil {
			return err
		}

		team, err := datastore.GetTeam(ctx, tx, playerID)
		if err != nil {
			return err
		}
		members, err := hydrate(ctx, tx, catalog, team)
		if err != nil {
			return err
		}

		out, err := service.resolver.Resolve(members, engine.Campaign{
			ID:            campaign.ID,
			Name:          campaign.Name,
			RequiredPower: campaign.RequiredPower,
			Gold:          campaign.Gold,
			Exp:           campaign.Exp,
		}, rng)
		if err != nil {
			return err
		}

		report = &models.BattleReport{
			ID:         uuid.NewString(),
			PlayerID:   playerID,
			CampaignID: campaignID,
			Win:        out.Win,
			Escaped:    out.Escaped,
			RawPower:   out.RawPower,
			FinalPower: out.FinalPower,
			Multiplier: out.Bonds.Multiplier(),
			Bonds:      bondNames(out.Bonds),
			Log:        out.Log,
			LevelUps:   out.LevelUps,
			CreatedAt:  time.Now(),
		}

		if out.Win {
			if err := service.applyWin(ctx, tx, catalog, rng, playerID, campaignID, out, report); err != nil {
				return err
			}
		}
		return datastore.InsertBattleReport(ctx, tx, report)
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveBattle(report.Win, report.Escaped)
	service.logger.Info("battle",
		zap.Int64("player", playerID),
		zap.Int64("campaign", campaignID),
		zap.Bool("win", report.Win),
		zap.Bool("escaped", report.Escaped),
		zap.Int("power", report.FinalPower),
		zap.Int("required", campaign.RequiredPower),
	)
	return report, nil
}

func (service *ServiceBattle) applyWin(ctx context.Context, tx bun.Tx, catalog *Catalog, rng *rand.Rand, playerID, campaignID int64, out *engine.Outcome, report *models.BattleReport) error {
	report.Gold = out.Gold
	report.Exp = out.Exp

	if err := datastore.AddPlayerCurrency(ctx, tx, playerID, out.Gold, 0); err != nil {
		return err
	}
	for _, p := range out.Progress {
		if err := datastore.UpdateOwnedGeneralProgress(ctx, tx, p.ID, p.Level, p.Exp); err != nil {
			return err
		}
	}
	if err := datastore.RecordCampaignClear(ctx, tx, playerID, campaignID, service.rules.Battle.ClearStars); err != nil {
		return err
	}

	if !out.Drop {
		return nil
	}
	equipment, err := catalog.SampleEquipment(rng, service.rules.Battle.DropMaxStars)
	if err != nil {
		return err
	}
	if equipment == nil {
		service.logger.Warn("no equipment eligible for drop", zap.Int("max_stars", service.rules.Battle.DropMaxStars))
		return nil
	}

	drop := &models.OwnedEquipment{PlayerID: playerID, EquipmentID: equipment.ID, CreatedAt: time.Now(), Equipment: equipment}
	if err := datastore.InsertOwnedEquipment(ctx, tx, drop); err != nil {
		return err
	}
	report.DropEquipmentID = &drop.ID
	report.Drop = drop
	return nil
}

func bondNames(r engine.BondResult) []string {
	names := make([]string, len(r.Active))
	for i, b := range r.Active {
		names[i] = b.Name
	}
	return names
}

func (service *ServiceBattle) team(ctx context.Context, playerID int64) ([]*models.OwnedGeneral, []engine.Member, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	db := service.readonlyPostgresDB
	if _, err := getPlayer(ctx, db, playerID); err != nil {
		return nil, nil, err
	}

	team, err := datastore.GetTeam(ctx, db, playerID)
	if err != nil {
		return nil, nil, err
	}
	members, err := hydrate(ctx, db, catalog, team)
	if err != nil {
		return nil, nil, err
	}
	return team, members, nil
}

// ComputeTeamPower reports team power with bonds and no skill procs. An empty
// team reports zero.
func (service *ServiceBattle) ComputeTeamPower(ctx context.Context, playerID int64) (*models.TeamPower, error) {
	team, members, err := service.team(ctx, playerID)
	if err != nil {
		return nil, err
	}

	result := &models.TeamPower{Team: team, Multiplier: 1, Bonds: []engine.ActiveBond{}}
	if len(members) == 0 {
		return result, nil
	}

	power, err := service.resolver.Evaluate(members)
	if err != nil {
		return nil, err
	}
	result.RawPower = power.RawPower
	result.FinalPower = power.FinalPower
	result.Multiplier = power.Multiplier
	result.Bonds = power.Bonds.Active
	return result, nil
}

func (service *ServiceBattle) EvaluateBonds(ctx context.Context, playerID int64) (*engine.BondResult, error) {
	_, members, err := service.team(ctx, playerID)
	if err != nil {
		return nil, err
	}

	result := service.resolver.Bonds.Evaluate(members)
	return &result, nil
}

// Campaigns lists every campaign with the player's best rating.
func (service *ServiceBattle) Campaigns(ctx context.Context, playerID int64) ([]*models.Campaign, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := datastore.GetCampaignProgress(ctx, service.readonlyPostgresDB, playerID)
	if err != nil {
		return nil, err
	}

	campaigns := make([]*models.Campaign, len(catalog.Campaigns))
	for i, c := range catalog.Campaigns {
		cp := *c
		cp.Stars, cp.Passed = progress[c.ID]
		campaigns[i] = &cp
	}
	return campaigns, nil
}

func (service *ServiceBattle) BattleReports(ctx context.Context, playerID int64) ([]*models.BattleReport, error) {
	return datastore.GetBattleReports(ctx, service.readonlyPostgresDB, playerID, BATTLE_REPORT_LIMIT)
}

func (service *ServiceBattle) BattleReport(ctx context.Context, playerID int64, id string) (*models.BattleReport, error) {
	report, err := datastore.GetBattleReport(ctx, service.readonlyPostgresDB, playerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrBattleReportNotFound, "report %s", id)
	}
	return report, err
}
