package services

import (
	"context"
	"database/sql"
	"time"

	"sanguo/internal/datastore"
	"sanguo/internal/engine"
	"sanguo/internal/models"
	"sanguo/internal/pkg/locker"

	"github.com/cockroachdb/errors"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type ServicePlayer struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	locker             locker.Locker
	logger             *zap.Logger
	rules              engine.Rules

	serviceCatalog *ServiceCatalog
}

func NewServicePlayer(container *do.Injector) (*ServicePlayer, error) {
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

	return &ServicePlayer{container, postgresDB, readonlyPostgresDB, l, logger.Named("player"), rules, serviceCatalog}, nil
}

// FindOrCreatePlayer returns the player, creating it with the starter kit on
// first sight.
func (service *ServicePlayer) FindOrCreatePlayer(ctx context.Context, auth *models.PlayerFromAuth) (*models.Player, error) {
	if auth == nil {
		return nil, errors.New("auth is nil")
	}

	player, err := datastore.GetPlayerByID(ctx, service.readonlyPostgresDB, auth.ID)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	starter := service.rules.Starter
	err = inPlayerTx(ctx, service.locker, service.postgresDB, auth.ID, func(ctx context.Context, tx bun.Tx) error {
		existing, err := datastore.GetPlayerByID(ctx, tx, auth.ID)
		if err == nil {
			player = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		now := time.Now()
		player = &models.Player{
			ID:        auth.ID,
			Name:      auth.Name,
			Gold:      starter.Gold,
			Tokens:    starter.Tokens,
			CreatedAt: now,
			UpdatedAt: now,
			IsNew:     true,
		}
		if err := datastore.InsertPlayer(ctx, tx, player); err != nil {
			return err
		}

		if general, ok := catalog.GeneralByName(starter.General); ok {
			err := datastore.InsertOwnedGeneral(ctx, tx, &models.OwnedGeneral{
				PlayerID:  player.ID,
				GeneralID: general.ID,
				Level:     1,
				CreatedAt: now,
			})
			if err != nil {
				return err
			}
		}

		if equipment, ok := catalog.EquipmentByName(starter.Equipment); ok {
			err := datastore.InsertOwnedEquipment(ctx, tx, &models.OwnedEquipment{
				PlayerID:    player.ID,
				EquipmentID: equipment.ID,
				CreatedAt:   now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if player.IsNew {
		service.logger.Info("player created", zap.Int64("player", player.ID), zap.String("name", player.Name))
	}
	return player, nil
}

func (service *ServicePlayer) GetPlayer(ctx context.Context, playerID int64) (*models.Player, error) {
	return getPlayer(ctx, service.readonlyPostgresDB, playerID)
}

// SignIn grants the daily reward once per UTC day.
func (service *ServicePlayer) SignIn(ctx context.Context, playerID int64, now time.Time) (*models.SignInReward, error) {
	day := now.UTC().Format(time.DateOnly)
	reward := service.rules.SignIn

	err := inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getPlayer(ctx, tx, playerID); err != nil {
			return err
		}

		ok, err := datastore.SignIn(ctx, tx, playerID, day, reward.Gold, reward.Tokens)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(engine.ErrAlreadySignedIn, "day %s", day)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("signed in", zap.Int64("player", playerID), zap.String("day", day))
	return &models.SignInReward{Gold: reward.Gold, Tokens: reward.Tokens}, nil
}

// Roster lists every owned general with catalog data, equipment, shard
// balance and power.
func (service *ServicePlayer) Roster(ctx context.Context, playerID int64) ([]*models.OwnedGeneral, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	db := service.readonlyPostgresDB
	if _, err := getPlayer(ctx, db, playerID); err != nil {
		return nil, err
	}

	owned, err := datastore.GetOwnedGenerals(ctx, db, playerID)
	if err != nil {
		return nil, err
	}
	if _, err := hydrate(ctx, db, catalog, owned); err != nil {
		return nil, err
	}

	shards, err := datastore.GetShards(ctx, db, playerID)
	if err != nil {
		return nil, err
	}
	for _, og := range owned {
		og.Shards = shards[og.GeneralID]
	}
	return owned, nil
}

// Inventory lists owned equipment, strongest first.
func (service *ServicePlayer) Inventory(ctx context.Context, playerID int64) ([]*models.InventoryItem, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	db := service.readonlyPostgresDB
	if _, err := getPlayer(ctx, db, playerID); err != nil {
		return nil, err
	}

	equipments, err := datastore.GetOwnedEquipments(ctx, db, playerID)
	if err != nil {
		return nil, err
	}
	holders, err := service.holderNames(ctx, db, catalog, playerID)
	if err != nil {
		return nil, err
	}

	items := make([]*models.InventoryItem, 0, len(equipments))
	for _, e := range equipments {
		equipment, ok := catalog.Equipment(e.EquipmentID)
		if !ok {
			return nil, errors.Wrapf(engine.ErrEquipmentNotFound, "catalog equipment %d", e.EquipmentID)
		}
		item := &models.InventoryItem{ID: e.ID, Equipment: equipment}
		if e.OwnedGeneralID != nil {
			name := holders[*e.OwnedGeneralID]
			item.EquippedBy = &name
		}
		items = append(items, item)
	}

	sortInventory(items)
	return items, nil
}

func (service *ServicePlayer) Collection(ctx context.Context, playerID int64) (*models.Collection, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	db := service.readonlyPostgresDB
	if _, err := getPlayer(ctx, db, playerID); err != nil {
		return nil, err
	}

	owned, err := datastore.GetOwnedGeneralIDs(ctx, db, playerID)
	if err != nil {
		return nil, err
	}
	equipments, err := datastore.GetOwnedEquipments(ctx, db, playerID)
	if err != nil {
		return nil, err
	}
	holders, err := service.holderNames(ctx, db, catalog, playerID)
	if err != nil {
		return nil, err
	}

	collection := &models.Collection{
		GeneralIDs:   make([]int64, 0, len(owned)),
		EquipmentIDs: make([]int64, 0, len(equipments)),
		Assignments:  map[int64][]string{},
	}
	for id := range owned {
		collection.GeneralIDs = append(collection.GeneralIDs, id)
	}
	sortIDs(collection.GeneralIDs)
	for _, e := range equipments {
		collection.EquipmentIDs = append(collection.EquipmentIDs, e.EquipmentID)
		if e.OwnedGeneralID != nil {
			collection.Assignments[e.EquipmentID] = append(collection.Assignments[e.EquipmentID], holders[*e.OwnedGeneralID])
		}
	}
	return collection, nil
}

func (service *ServicePlayer) holderNames(ctx context.Context, db bun.IDB, catalog *Catalog, playerID int64) (map[int64]string, error) {
	owned, err := datastore.GetOwnedGenerals(ctx, db, playerID)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(owned))
	for _, og := range owned {
		if g, ok := catalog.General(og.GeneralID); ok {
			names[og.ID] = g.Name
		}
	}
	return names, nil
}

// SetCurrency overwrites both balances.
func (service *ServicePlayer) SetCurrency(ctx context.Context, playerID int64, gold, tokens int) error {
	if gold < 0 || tokens < 0 {
		return errors.Newf("invalid currency: gold %d tokens %d", gold, tokens)
	}

	return inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getPlayer(ctx, tx, playerID); err != nil {
			return err
		}
		return datastore.SetPlayerCurrency(ctx, tx, playerID, gold, tokens)
	})
}

func (service *ServicePlayer) GrantGeneral(ctx context.Context, playerID, generalID int64) (*models.OwnedGeneral, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	general, ok := catalog.General(generalID)
	if !ok {
		return nil, errors.Wrapf(engine.ErrGeneralNotFound, "catalog general %d", generalID)
	}

	owned := &models.OwnedGeneral{PlayerID: playerID, GeneralID: generalID, Level: 1, CreatedAt: time.Now(), General: general}
	err = inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getPlayer(ctx, tx, playerID); err != nil {
			return err
		}
		return datastore.InsertOwnedGeneral(ctx, tx, owned)
	})
	if err != nil {
		return nil, err
	}
	return owned, nil
}

func (service *ServicePlayer) GrantEquipment(ctx context.Context, playerID, equipmentID int64) (*models.OwnedEquipment, error) {
	catalog, err := service.serviceCatalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	equipment, ok := catalog.Equipment(equipmentID)
	if !ok {
		return nil, errors.Wrapf(engine.ErrEquipmentNotFound, "catalog equipment %d", equipmentID)
	}

	owned := &models.OwnedEquipment{PlayerID: playerID, EquipmentID: equipmentID, CreatedAt: time.Now(), Equipment: equipment}
	err = inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if _, err := getPlayer(ctx, tx, playerID); err != nil {
			return err
		}
		return datastore.InsertOwnedEquipment(ctx, tx, owned)
	})
	if err != nil {
		return nil, err
	}
	return owned, nil
}

// RemoveGeneral deletes an owned general and returns its items to the
// inventory.
func (service *ServicePlayer) RemoveGeneral(ctx context.Context, playerID, ownedID int64) error {
	err := inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		if err := datastore.DetachAllEquipment(ctx, tx, playerID, ownedID); err != nil {
			return err
		}

		ok, err := datastore.DeleteOwnedGeneral(ctx, tx, playerID, ownedID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(engine.ErrGeneralNotFound, "owned general %d", ownedID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	service.logger.Info("general removed", zap.Int64("player", playerID), zap.Int64("owned_general", ownedID))
	return nil
}

func (service *ServicePlayer) RemoveEquipment(ctx context.Context, playerID, ownedID int64) error {
	err := inPlayerTx(ctx, service.locker, service.postgresDB, playerID, func(ctx context.Context, tx bun.Tx) error {
		ok, err := datastore.DeleteOwnedEquipment(ctx, tx, playerID, ownedID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(engine.ErrEquipmentNotFound, "owned equipment %d", ownedID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	service.logger.Info("equipment removed", zap.Int64("player", playerID), zap.Int64("owned_equipment", ownedID))
	return nil
}
