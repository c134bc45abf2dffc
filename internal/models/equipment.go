package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Equipment struct {
	bun.BaseModel `bun:"table:equipment"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,unique" json:"name"`
	Type          string `bun:"type" json:"type"`
	StatBonus     int    `bun:"stat_bonus" json:"stat_bonus"`
	Stars         int    `bun:"stars" json:"stars"`
	Weight        int    `bun:"weight" json:"-" msgpack:"weight"`
}

type OwnedEquipment struct {
	bun.BaseModel  `bun:"table:player_equipment"`
	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID       int64     `bun:"player_id" json:"player_id"`
	EquipmentID    int64     `bun:"equipment_id" json:"equipment_id"`
	OwnedGeneralID *int64    `bun:"owned_general_id" json:"owned_general_id"`
	CreatedAt      time.Time `bun:"created_at,default:current_timestamp" json:"-"`

	Equipment *Equipment `bun:"-" json:"equipment"`
}
