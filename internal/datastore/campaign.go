package datastore

import (
	"context"
	"time"

	"sanguo/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableCampaign(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.Campaign)(nil)).IfNotExists().Exec(ctx)
	return err
}

func UpsertCampaign(ctx context.Context, db bun.IDB, campaign *models.Campaign) error {
	res, err := db.NewUpdate().
		Model(campaign).
		ExcludeColumn("id").
		Where("name = ?", campaign.Name).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = db.NewInsert().Model(campaign).Exec(ctx)
	return err
}

func GetCampaigns(ctx context.Context, db bun.IDB) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := db.NewSelect().Model(&campaigns).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

func CreateTableCampaignProgress(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().Model((*models.CampaignProgress)(nil)).IfNotExists().Exec(ctx)
	return err
}

func GetCampaignProgress(ctx context.Context, db bun.IDB, playerID int64) (map[int64]int, error) {
	var progress []*models.CampaignProgress
	err := db.NewSelect().Model(&progress).Where("player_id = ?", playerID).Scan(ctx)
	if err != nil {
		return nil, err
	}

	stars := make(map[int64]int, len(progress))
	for _, p := range progress {
		stars[p.CampaignID] = p.Stars
	}
	return stars, nil
}

// RecordCampaignClear keeps the best star count seen for a campaign.
func RecordCampaignClear(ctx context.Context, db bun.IDB, playerID, campaignID int64, stars int) error {
	now := time.Now()
	res, err := db.NewUpdate().
		Model((*models.CampaignProgress)(nil)).
		Set("stars = ?", stars).
		Set("updated_at = ?", now).
		Where("player_id = ?", playerID).
		Where("campaign_id = ?", campaignID).
		Where("stars < ?", stars).
		Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = db.NewInsert().
		Model(&models.CampaignProgress{PlayerID: playerID, CampaignID: campaignID, Stars: stars, UpdatedAt: now}).
		On("CONFLICT (player_id, campaign_id) DO NOTHING").
		Exec(ctx)
	return err
}
