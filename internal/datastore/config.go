package datastore

import (
	"context"

	"sanguo/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableConfig(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Config)(nil)).IfNotExists().Exec(ctx)
	return err
}

func GetConfigByKey(ctx context.Context, db bun.IDB, key string) (*models.Config, error) {
	var config models.Config
	err := db.NewSelect().Model(&config).Where("? = ?", bun.Ident("key"), key).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func UpsertConfig(ctx context.Context, db bun.IDB, config *models.Config) error {
	res, err := db.NewUpdate().Model(config).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = db.NewInsert().Model(config).Exec(ctx)
	return err
}
