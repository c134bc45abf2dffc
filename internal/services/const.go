package services

import (
	"fmt"
	"time"
)

const (
	CONFIG_LEADERBOARD_SCHEDULE = "LEADERBOARD_SCHEDULE"
	CONFIG_LEADERBOARD_LIMIT    = "LEADERBOARD_LIMIT"

	LEADERBOARD_DEFAULT_SCHEDULE = "@every 5m"
	LEADERBOARD_DEFAULT_LIMIT    = 50
	LEADERBOARD_POWER            = "power"

	BATTLE_REPORT_LIMIT = 20

	DRAW_RATE_LIMIT_PER_MINUTE   = 60
	BATTLE_RATE_LIMIT_PER_MINUTE = 60

	LOCK_EXPIRY = 15 * time.Second

	CACHE_TTL_5_MINS = 5 * time.Minute
	CACHE_TTL_1_HOUR = 1 * time.Hour
)

func LockKeyPlayer(playerID int64) string {
	return fmt.Sprintf("lock:player:%d", playerID)
}

func LockKeyLeaderboard() string {
	return "lock:leaderboard"
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", key)
}

func DBKeyCatalogGenerals() string {
	return "catalog:generals"
}

func DBKeyCatalogEquipments() string {
	return "catalog:equipments"
}

func DBKeyCatalogCampaigns() string {
	return "catalog:campaigns"
}

func LimitKeyDraw(playerID int64) string {
	return fmt.Sprintf("limit:draw:%d", playerID)
}

func LimitKeyBattle(playerID int64) string {
	return fmt.Sprintf("limit:battle:%d", playerID)
}
