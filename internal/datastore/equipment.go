package datastore

import (
	"context"

	"sanguo/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableEquipment(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Equipment)(nil)).IfNotExists().Exec(ctx)
	return err
}

func UpsertEquipment(ctx context.Context, db bun.IDB, equipment *models.Equipment) error {
	res, err := db.NewUpdate().
		Model(equipment).
		ExcludeColumn("id").
		Where("name = ?", equipment.Name).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = db.NewInsert().Model(equipment).Exec(ctx)
	return err
}

func GetEquipments(ctx context.Context, db bun.IDB) ([]*models.Equipment, error) {
	var equipments []*models.Equipment
	err := db.NewSelect().Model(&equipments).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return equipments, nil
}

func CreateTablePlayerEquipment(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.OwnedEquipment)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.OwnedEquipment)(nil)).Index("index_player_equipment_player_id").IfNotExists().Column("player_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.OwnedEquipment)(nil)).Index("index_player_equipment_owned_general_id").IfNotExists().Column("owned_general_id").Exec(ctx)
	return err
}

func InsertOwnedEquipment(ctx context.Context, db bun.IDB, owned *models.OwnedEquipment) error {
	_, err := db.NewInsert().Model(owned).Exec(ctx)
	return err
}

func GetOwnedEquipments(ctx context.Context, db bun.IDB, playerID int64) ([]*models.OwnedEquipment, error) {
	var owned []*models.OwnedEquipment
	err := db.NewSelect().Model(&owned).Where("player_id = ?", playerID).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return owned, nil
}

func GetUnequippedEquipments(ctx context.Context, db bun.IDB, playerID int64) ([]*models.OwnedEquipment, error) {
	var owned []*models.OwnedEquipment
	err := db.NewSelect().Model(&owned).Where("player_id = ?", playerID).Where("owned_general_id IS NULL").Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return owned, nil
}

// GetEquipmentsOfGenerals loads every item attached to the given roster
// instances.
func GetEquipmentsOfGenerals(ctx context.Context, db bun.IDB, ownedGeneralIDs []int64) ([]*models.OwnedEquipment, error) {
	var owned []*models.OwnedEquipment
	if len(ownedGeneralIDs) == 0 {
		return owned, nil
	}

	err := db.NewSelect().Model(&owned).Where("owned_general_id IN (?)", bun.In(ownedGeneralIDs)).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return owned, nil
}

func GetOwnedEquipment(ctx context.Context, db bun.IDB, playerID, ownedID int64) (*models.OwnedEquipment, error) {
	var owned models.OwnedEquipment
	err := db.NewSelect().Model(&owned).Where("id = ?", ownedID).Where("player_id = ?", playerID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &owned, nil
}

// AttachEquipment sets the holder of an item; nil detaches it.
func AttachEquipment(ctx context.Context, db bun.IDB, ownedID int64, ownedGeneralID *int64) error {
	_, err := db.NewUpdate().
		Model((*models.OwnedEquipment)(nil)).
		Set("owned_general_id = ?", ownedGeneralID).
		Where("id = ?", ownedID).
		Exec(ctx)
	return err
}

func DetachAllEquipment(ctx context.Context, db bun.IDB, playerID, ownedGeneralID int64) error {
	_, err := db.NewUpdate().
		Model((*models.OwnedEquipment)(nil)).
		Set("owned_general_id = NULL").
		Where("player_id = ?", playerID).
		Where("owned_general_id = ?", ownedGeneralID).
		Exec(ctx)
	return err
}

func DeleteOwnedEquipment(ctx context.Context, db bun.IDB, playerID, ownedID int64) (bool, error) {
	res, err := db.NewDelete().
		Model((*models.OwnedEquipment)(nil)).
		Where("id = ?", ownedID).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
