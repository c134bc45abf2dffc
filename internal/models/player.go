package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Player struct {
	bun.BaseModel `bun:"table:player"`
	ID            int64     `bun:"id,pk" json:"id"`
	Name          string    `bun:"name" json:"name"`
	Gold          int       `bun:"gold" json:"gold"`
	Tokens        int       `bun:"tokens" json:"tokens"`
	PityCounter   int       `bun:"pity_counter" json:"pity_counter"`
	LastSignIn    *string   `bun:"last_signin" json:"last_signin"`
	CreatedAt     time.Time `bun:"created_at,default:current_timestamp" json:"-"`
	UpdatedAt     time.Time `bun:"updated_at" json:"-"`

	IsNew bool `bun:"-" json:"is_new"`
}

// PlayerFromAuth only use in middleware
type PlayerFromAuth struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SignInReward struct {
	Gold   int `json:"gold"`
	Tokens int `json:"tokens"`
}
