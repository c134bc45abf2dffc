package datastore

import (
	"context"

	"sanguo/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePlayerGeneral(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.OwnedGeneral)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.OwnedGeneral)(nil)).Index("index_player_general_player_id").IfNotExists().Column("player_id").Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.OwnedGeneral)(nil)).Index("index_player_general_player_id_general_id").IfNotExists().Column("player_id", "general_id").Exec(ctx)
	return err
}

func InsertOwnedGeneral(ctx context.Context, db bun.IDB, owned *models.OwnedGeneral) error {
	_, err := db.NewInsert().Model(owned).Exec(ctx)
	return err
}

func GetOwnedGenerals(ctx context.Context, db bun.IDB, playerID int64) ([]*models.OwnedGeneral, error) {
	var owned []*models.OwnedGeneral
	err := db.NewSelect().Model(&owned).Where("player_id = ?", playerID).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return owned, nil
}

func GetTeam(ctx context.Context, db bun.IDB, playerID int64) ([]*models.OwnedGeneral, error) {
	var team []*models.OwnedGeneral
	err := db.NewSelect().Model(&team).Where("player_id = ?", playerID).Where("is_in_team = ?", true).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func GetOwnedGeneral(ctx context.Context, db bun.IDB, playerID, ownedID int64) (*models.OwnedGeneral, error) {
	var owned models.OwnedGeneral
	err := db.NewSelect().Model(&owned).Where("id = ?", ownedID).Where("player_id = ?", playerID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &owned, nil
}

// GetOwnedGeneralIDs returns the set of catalog ids the player holds.
func GetOwnedGeneralIDs(ctx context.Context, db bun.IDB, playerID int64) (map[int64]bool, error) {
	var ids []int64
	err := db.NewSelect().Model((*models.OwnedGeneral)(nil)).Column("general_id").Where("player_id = ?", playerID).Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}

	owned := make(map[int64]bool, len(ids))
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

func GetOwnedGeneralByGeneralID(ctx context.Context, db bun.IDB, playerID, generalID int64) (*models.OwnedGeneral, error) {
	var owned models.OwnedGeneral
	err := db.NewSelect().Model(&owned).Where("player_id = ?", playerID).Where("general_id = ?", generalID).Order("id").Limit(1).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &owned, nil
}

func UpdateOwnedGeneralProgress(ctx context.Context, db bun.IDB, ownedID int64, level, exp int) error {
	_, err := db.NewUpdate().
		Model((*models.OwnedGeneral)(nil)).
		Set("level = ?", level).
		Set("exp = ?", exp).
		Where("id = ?", ownedID).
		Exec(ctx)
	return err
}

func UpdateOwnedGeneralEvolution(ctx context.Context, db bun.IDB, ownedID int64, evolution int) error {
	_, err := db.NewUpdate().
		Model((*models.OwnedGeneral)(nil)).
		Set("evolution = ?", evolution).
		Where("id = ?", ownedID).
		Exec(ctx)
	return err
}

func SetOwnedGeneralInTeam(ctx context.Context, db bun.IDB, playerID, ownedID int64, inTeam bool) error {
	_, err := db.NewUpdate().
		Model((*models.OwnedGeneral)(nil)).
		Set("is_in_team = ?", inTeam).
		Where("id = ?", ownedID).
		Where("player_id = ?", playerID).
		Exec(ctx)
	return err
}

func ClearTeam(ctx context.Context, db bun.IDB, playerID int64) error {
	_, err := db.NewUpdate().
		Model((*models.OwnedGeneral)(nil)).
		Set("is_in_team = ?", false).
		Where("player_id = ?", playerID).
		Exec(ctx)
	return err
}

func DeleteOwnedGeneral(ctx context.Context, db bun.IDB, playerID, ownedID int64) (bool, error) {
	res, err := db.NewDelete().
		Model((*models.OwnedGeneral)(nil)).
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
