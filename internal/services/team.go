package services

import (
	"context"

	"sanguo/internal/datastore"
	"sanguo/internal/engine"
	"sanguo/internal/models"
	"sanguo/internal/pkg/locker"

	"github.com/cockroachdb/errors"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServiceTeam struct {
	container  *do.Injector
	postgresDB *bun.DB
	locker     locker.Locker
	logger     *zap.Logger
	rules      engine.Rules

	serviceCatalog *ServiceCatalog
}

func NewServiceTeam(container *do.Injector) (*ServiceTeam, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
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

	return &ServiceTeam{container, postgresDB, l, logger.Named("team"), rules, serviceCatalog}, nil
}

func (service *ServiceTeam) AddToTeam(ctx context.Context, playerID, ownedID int64) error {
	return inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		team, err := datastore.GetTeam(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if len(team) >= service.rules.Team.MaxSize {
			return errors.Wrapf(engine.ErrTeamFull, "max %d", service.rules.Team.MaxSize)
		}

		target, err := getOwnedGeneral(ctx, tx, playerID, ownedID)
		if err != nil {
			return err
		}

		ids := make([]int64, len(team))
		for i, og := range team {
			ids[i] = og.GeneralID
		}
		if err := engine.CanJoin(ids, target.GeneralID, service.rules.Team.MaxSize); err != nil {
			return err
		}
		return datastore.SetOwnedGeneralInTeam(ctx, tx, playerID, ownedID, true)
	})
}

func (service *ServiceTeam) RemoveFromTeam(ctx context.Context, playerID, ownedID int64) error {
	return inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getOwnedGeneral(ctx, tx, playerID, ownedID); err != nil {
			return err
		}
		return datastore.SetOwnedGeneralInTeam(ctx, tx, playerID, ownedID, false)
	})
}

// AutoTeam replaces the team with the strongest distinct generals by base
// power.
func (service *ServiceTeam) AutoTeam(ctx context.Context, playerID int64) ([]*models.OwnedGeneral, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var picked []*models.OwnedGeneral
	err = inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getPlayer(ctx, tx, playerID); err != nil {
			return err
		}

		roster, err := datastore.GetOwnedGenerals(ctx, tx, playerID)
		if err != nil {
			return err
		}

		byID := make(map[int64]*models.OwnedGeneral, len(roster))
		members := make([]engine.Member, 0, len(roster))
		for _, og := range roster {
			general, ok := catalog.General(og.GeneralID)
			if !ok {
				return errors.Wrapf(engine.ErrGeneralNotFound, "catalog general %d", og.GeneralID)
			}
			og.General = general
			byID[og.ID] = og
			members = append(members, memberOf(og, general))
		}

		if err := datastore.ClearTeam(ctx, tx, playerID); err != nil {
			return err
		}

		picked = make([]*models.OwnedGeneral, 0, service.rules.Team.MaxSize)
		for _, m := range engine.AutoTeam(members, service.rules.Team.MaxSize) {
			if err := datastore.SetOwnedGeneralInTeam(ctx, tx, playerID, m.ID, true); err != nil {
				return err
			}
			og := byID[m.ID]
			og.IsInTeam = true
			og.Power = engine.BasePower(m)
			picked = append(picked, og)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("auto team", zap.Int64("player", playerID), zap.Int("size", len(picked)))
	return picked, nil
}

// Evolve spends shards of the general's catalog entry to raise its evolution
// tier by one.
func (service *ServiceTeam) Evolve(ctx context.Context, playerID, ownedID int64) (*models.OwnedGeneral, error) {
	cost := service.rules.Team.EvolveCost

	var target *models.OwnedGeneral
	err := inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		var err error
		target, err = getOwnedGeneral(ctx, tx, playerID, ownedID)
		if err != nil {
			return err
		}

		shards, err := datastore.GetShard(ctx, tx, playerID, target.GeneralID)
		if err != nil {
			return err
		}
		left, err := engine.Evolve(shards, cost)
		if err != nil {
			return errors.Wrapf(err, "have %d need %d", shards, cost)
		}

		ok, err := datastore.ConsumeShards(ctx, tx, playerID, target.GeneralID, cost)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(engine.ErrNotEnoughShards, "have %d need %d", shards, cost)
		}

		target.Evolution++
		target.Shards = left
		return datastore.UpdateOwnedGeneralEvolution(ctx, tx, target.ID, target.Evolution)
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("evolved",
		zap.Int64("player", playerID),
		zap.Int64("owned_general", ownedID),
		zap.Int("evolution", target.Evolution),
	)
	return target, nil
}

// Equip attaches an unequipped item, replacing whatever the general holds in
// the same slot.
func (service *ServiceTeam) Equip(ctx context.Context, playerID, ownedGeneralID, ownedEquipmentID int64) error {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return err
	}

	return inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		holder, err := getOwnedGeneral(ctx, tx, playerID, ownedGeneralID)
		if err != nil {
			return err
		}
		item, err := getOwnedEquipment(ctx, tx, playerID, ownedEquipmentID)
		if err != nil {
			return err
		}
		if item.OwnedGeneralID != nil {
			if *item.OwnedGeneralID == holder.ID {
				return nil
			}
			return errors.Wrapf(engine.ErrEquipmentInUse, "owned equipment %d", item.ID)
		}

		equipment, ok := catalog.Equipment(item.EquipmentID)
		if !ok {
			return errors.Wrapf(engine.ErrEquipmentNotFound, "catalog equipment %d", item.EquipmentID)
		}

		worn, err := datastore.GetEquipmentsOfGenerals(ctx, tx, []int64{holder.ID})
		if err != nil {
			return err
		}
		for _, w := range worn {
			if e, ok := catalog.Equipment(w.EquipmentID); ok && e.Type == equipment.Type {
				if err := datastore.AttachEquipment(ctx, tx, w.ID, nil); err != nil {
					return err
				}
			}
		}
		return datastore.AttachEquipment(ctx, tx, item.ID, &holder.ID)
	})
}

// AutoEquip strips the general and then puts on the best unequipped item of
// every slot.
func (service *ServiceTeam) AutoEquip(ctx context.Context, playerID, ownedGeneralID int64) ([]*models.OwnedEquipment, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var equipped []*models.OwnedEquipment
	err = inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		holder, err := getOwnedGeneral(ctx, tx, playerID, ownedGeneralID)
		if err != nil {
			return err
		}
		if err := datastore.DetachAllEquipment(ctx, tx, playerID, holder.ID); err != nil {
			return err
		}

		free, err := datastore.GetUnequippedEquipments(ctx, tx, playerID)
		if err != nil {
			return err
		}

		byID := make(map[int64]*models.OwnedEquipment, len(free))
		items := make([]engine.Item, 0, len(free))
		for _, f := range free {
			e, ok := catalog.Equipment(f.EquipmentID)
			if !ok {
				continue
			}
			f.Equipment = e
			byID[f.ID] = f
			items = append(items, engine.Item{ID: f.ID, Slot: engine.Slot(e.Type), Bonus: e.StatBonus, Stars: e.Stars})
		}

		equipped = make([]*models.OwnedEquipment, 0, len(engine.Slots))
		for _, it := range engine.BestPerSlot(items) {
			if err := datastore.AttachEquipment(ctx, tx, it.ID, &holder.ID); err != nil {
				return err
			}
			f := byID[it.ID]
			f.OwnedGeneralID = &holder.ID
			equipped = append(equipped, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return equipped, nil
}

func (service *ServiceTeam) Unequip(ctx context.Context, playerID, ownedGeneralID int64) error {
	return inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getOwnedGeneral(ctx, tx, playerID, ownedGeneralID); err != nil {
			return err
		}
		return datastore.DetachAllEquipment(ctx, tx, playerID, ownedGeneralID)
	})
}
