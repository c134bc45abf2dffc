package datastore

import (
	"context"

	"github.com/uptrace/bun"
)

// Migrate creates every table and index the game needs. It is safe to run
// repeatedly.
func Migrate(ctx context.Context, db bun.IDB) error {
	steps := []func(context.Context, bun.IDB) error{
		CreateTableConfig,
		CreateTableGeneral,
		CreateTableEquipment,
		CreateTableCampaign,
		CreateTablePlayer,
		CreateTablePlayerGeneral,
		CreateTablePlayerShard,
		CreateTablePlayerEquipment,
		CreateTableCampaignProgress,
		CreateTableBattleReport,
	}
	for _, step := range steps {
		if err := step(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
