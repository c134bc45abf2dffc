package datastore

import (
	"context"

	"sanguo/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableGeneral(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.General)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.General)(nil)).Index("index_general_stars").IfNotExists().Column("stars").Exec(ctx)
	return err
}

// UpsertGeneral matches on name so reseeding keeps ids stable.
func UpsertGeneral(ctx context.Context, db bun.IDB, general *models.General) error {
	res, err := db.NewUpdate().
		Model(general).
		ExcludeColumn("id").
		Where("name = ?", general.Name).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = db.NewInsert().Model(general).Exec(ctx)
	return err
}

func GetGenerals(ctx context.Context, db bun.IDB) ([]*models.General, error) {
	var generals []*models.General
	err := db.NewSelect().Model(&generals).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return generals, nil
}

func GetGeneralByName(ctx context.Context, db bun.IDB, name string) (*models.General, error) {
	var general models.General
	err := db.NewSelect().Model(&general).Where("name = ?", name).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &general, nil
}
