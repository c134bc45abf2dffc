package datastore

import (
	"context"

	"sanguo/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableBattleReport(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.BattleReport)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.BattleReport)(nil)).Index("index_battle_report_player_id_created_at").IfNotExists().Column("player_id", "created_at").Exec(ctx)
	return err
}

func InsertBattleReport(ctx context.Context, db bun.IDB, report *models.BattleReport) error {
	_, err := db.NewInsert().Model(report).Exec(ctx)
	return err
}

func GetBattleReport(ctx context.Context, db bun.IDB, playerID int64, id string) (*models.BattleReport, error) {
	var report models.BattleReport
	err := db.NewSelect().Model(&report).Where("id = ?", id).Where("player_id = ?", playerID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func GetBattleReports(ctx context.Context, db bun.IDB, playerID int64, limit int) ([]*models.BattleReport, error) {
	var reports []*models.BattleReport
	err := db.NewSelect().Model(&reports).Where("player_id = ?", playerID).Order("created_at DESC").Limit(limit).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return reports, nil
}
