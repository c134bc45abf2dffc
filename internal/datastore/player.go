package datastore

import (
	"context"
	"time"

	"sanguo/internal/models"

	"github.com/uptrace/bun"
)

func CreateTablePlayer(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Player)(nil)).IfNotExists().Exec(ctx)
	return err
}

func InsertPlayer(ctx context.Context, db bun.IDB, player *models.Player) error {
	_, err := db.NewInsert().Model(player).Exec(ctx)
	return err
}

func GetPlayerByID(ctx context.Context, db bun.IDB, playerID int64) (*models.Player, error) {
	var player models.Player
	err := db.NewSelect().Model(&player).Where("id = ?", playerID).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func GetPlayerIDs(ctx context.Context, db bun.IDB, limit, offset int) ([]int64, error) {
	var ids []int64
	err := db.NewSelect().Model((*models.Player)(nil)).Column("id").Order("id").Limit(limit).Offset(offset).Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ChargeTokens takes cost tokens only when the balance covers it and reports
// whether it did.
func ChargeTokens(ctx context.Context, db bun.IDB, playerID int64, cost int) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("tokens = tokens - ?", cost).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID).
		Where("tokens >= ?", cost).
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

func AddPlayerCurrency(ctx context.Context, db bun.IDB, playerID int64, gold, tokens int) error {
	_, err := db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("gold = gold + ?", gold).
		Set("tokens = tokens + ?", tokens).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID).
		Exec(ctx)
	return err
}

func SetPlayerCurrency(ctx context.Context, db bun.IDB, playerID int64, gold, tokens int) error {
	_, err := db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("gold = ?", gold).
		Set("tokens = ?", tokens).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID).
		Exec(ctx)
	return err
}

func SetPlayerPity(ctx context.Context, db bun.IDB, playerID int64, pity int) error {
	_, err := db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("pity_counter = ?", pity).
		Where("id = ?", playerID).
		Exec(ctx)
	return err
}

// SignIn credits the reward once per day and reports whether it did.
func SignIn(ctx context.Context, db bun.IDB, playerID int64, day string, gold, tokens int) (bool, error) {
	res, err := db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("gold = gold + ?", gold).
		Set("tokens = tokens + ?", tokens).
		Set("last_signin = ?", day).
		Where("id = ?", playerID).
		WhereGroup(" AND ", func(q *bun.UpdateQuery) *bun.UpdateQuery {
			return q.Where("last_signin IS NULL").WhereOr("last_signin <> ?", day)
		}).
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
