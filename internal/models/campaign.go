package models

import (
	"time"

	"sanguo/internal/engine"

	"github.com/uptrace/bun"
)

type Campaign struct {
	bun.BaseModel `bun:"table:campaign"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,unique" json:"name"`
	RequiredPower int    `bun:"required_power" json:"required_power"`
	Gold          int    `bun:"gold" json:"gold"`
	Exp           int    `bun:"exp" json:"exp"`

	Stars  int  `bun:"-" json:"stars"`
	Passed bool `bun:"-" json:"passed"`
}

type CampaignProgress struct {
	bun.BaseModel `bun:"table:campaign_progress"`
	PlayerID      int64     `bun:"player_id,pk" json:"player_id"`
	CampaignID    int64     `bun:"campaign_id,pk" json:"campaign_id"`
	Stars         int       `bun:"stars" json:"stars"`
	UpdatedAt     time.Time `bun:"updated_at" json:"updated_at"`
}

type BattleReport struct {
	bun.BaseModel   `bun:"table:battle_report"`
	ID              string           `bun:"id,pk" json:"id"`
	PlayerID        int64            `bun:"player_id" json:"player_id"`
	CampaignID      int64            `bun:"campaign_id" json:"campaign_id"`
	Win             bool             `bun:"win" json:"win"`
	Escaped         bool             `bun:"escaped" json:"escaped"`
	RawPower        int              `bun:"raw_power" json:"raw_power"`
	FinalPower      int              `bun:"final_power" json:"final_power"`
	Multiplier      float64          `bun:"multiplier" json:"multiplier"`
	Bonds           []string         `bun:"bonds" json:"bonds"`
	Log             []string         `bun:"log" json:"log"`
	Gold            int              `bun:"gold" json:"gold"`
	Exp             int              `bun:"exp" json:"exp"`
	LevelUps        []engine.LevelUp `bun:"level_ups" json:"level_ups"`
	DropEquipmentID *int64           `bun:"drop_equipment_id" json:"drop_equipment_id"`
	CreatedAt       time.Time        `bun:"created_at,default:current_timestamp" json:"created_at"`

	Drop *OwnedEquipment `bun:"-" json:"drop"`
}
