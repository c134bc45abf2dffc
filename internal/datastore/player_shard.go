package datastore

import (
	"context"
	"database/sql"

	"sanguo/internal/models"

	"github.com/cockroachdb/errors"
	"github.com/uptrace/bun"
)

func CreateTablePlayerShard(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.PlayerShard)(nil)).IfNotExists().Exec(ctx)
	return err
}

func IncrementShard(ctx context.Context, db bun.IDB, playerID, generalID int64, delta int) error {
	res, err := db.NewUpdate().
		Model((*models.PlayerShard)(nil)).
		Set("count = count + ?", delta).
		Where("player_id = ?", playerID).
		Where("general_id = ?", generalID).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = db.NewInsert().Model(&models.PlayerShard{PlayerID: playerID, GeneralID: generalID, Count: delta}).Exec(ctx)
	return err
}

// ConsumeShards subtracts cost only when the balance covers it and reports
// whether it did.
func ConsumeShards(ctx context.Context, db bun.IDB, playerID, generalID int64, cost int) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.PlayerShard)(nil)).
		Set("count = count - ?", cost).
		Where("player_id = ?", playerID).
		Where("general_id = ?", generalID).
		Where("count >= ?", cost).
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

func GetShard(ctx context.Context, db bun.IDB, playerID, generalID int64) (int, error) {
	var shard models.PlayerShard
	err := db.NewSelect().Model(&shard).Where("player_id = ?", playerID).Where("general_id = ?", generalID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return shard.Count, nil
}

func GetShards(ctx context.Context, db bun.IDB, playerID int64) (map[int64]int, error) {
	var shards []*models.PlayerShard
	err := db.NewSelect().Model(&shards).Where("player_id = ?", playerID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[int64]int, len(shards))
	for _, s := range shards {
		out[s.GeneralID] = s.Count
	}
	return out, nil
}
