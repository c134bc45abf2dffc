package models

import (
	"time"

	"github.com/uptrace/bun"
)

// General is a catalog entry.
type General struct {
	bun.BaseModel `bun:"table:general"`
	ID            int64  `bun:"id,pk,autoincrement" json:"id"`
	Name          string `bun:"name,unique" json:"name"`
	Stars         int    `bun:"stars" json:"stars"`
	Str           int    `bun:"str" json:"str"`
	Int           int    `bun:"int" json:"int"`
	Ldr           int    `bun:"ldr" json:"ldr"`
	Luck          int    `bun:"luck" json:"luck"`
	Country       string `bun:"country" json:"country"`
	Description   string `bun:"description" json:"description"`
	SkillName     string `bun:"skill_name" json:"skill_name"`
	SkillDesc     string `bun:"skill_desc" json:"skill_desc"`
	Weight        int    `bun:"weight" json:"-" msgpack:"weight"`
}

// OwnedGeneral is one roster instance of a catalog general.
type OwnedGeneral struct {
	bun.BaseModel `bun:"table:player_general"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID      int64     `bun:"player_id" json:"player_id"`
	GeneralID     int64     `bun:"general_id" json:"general_id"`
	Level         int       `bun:"level" json:"level"`
	Exp           int       `bun:"exp" json:"exp"`
	Evolution     int       `bun:"evolution" json:"evolution"`
	IsInTeam      bool      `bun:"is_in_team" json:"is_in_team"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"-"`

	General   *General          `bun:"-" json:"general"`
	Equipment []*OwnedEquipment `bun:"-" json:"equipment"`
	Shards    int               `bun:"-" json:"shards"`
	Power     int               `bun:"-" json:"power"`
}

type PlayerShard struct {
	bun.BaseModel `bun:"table:player_shard"`
	PlayerID      int64 `bun:"player_id,pk" json:"player_id"`
	GeneralID     int64 `bun:"general_id,pk" json:"general_id"`
	Count         int   `bun:"count" json:"count"`
}
