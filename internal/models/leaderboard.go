package models

import "time"

type LeaderboardItem struct {
	Name     string  `json:"name" msgpack:"name"`
	PlayerID int64   `json:"player_id" msgpack:"player_id"`
	Score    float64 `json:"score" msgpack:"score"`
	Rank     int     `json:"rank,omitempty" msgpack:"rank"`
}

type LeaderboardResponse struct {
	Leaderboard []*LeaderboardItem `json:"leaderboard"`
	Me          *LeaderboardItem   `json:"me"`
	UpdatedAt   *time.Time         `json:"updated_at"`
}
