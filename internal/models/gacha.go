package models

type DrawItem struct {
	General        *General `json:"general"`
	OwnedGeneralID int64    `json:"owned_general_id"`
	Duplicate      bool     `json:"converted"`
	Shards         int      `json:"shards"`
}

type DrawResult struct {
	Draws       []*DrawItem `json:"draws"`
	Tokens      int         `json:"tokens"`
	PityCounter int         `json:"pity_counter"`
}
