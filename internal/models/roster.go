package models

import (
	"sanguo/internal/engine"
)

type TeamPower struct {
	Team       []*OwnedGeneral     `json:"team"`
	RawPower   int                 `json:"raw_power"`
	FinalPower int                 `json:"final_power"`
	Multiplier float64             `json:"multiplier"`
	Bonds      []engine.ActiveBond `json:"bonds"`
}

type InventoryItem struct {
	ID         int64      `json:"id"`
	Equipment  *Equipment `json:"equipment"`
	EquippedBy *string    `json:"equipped_by"`
}

// Collection lists the catalog ids a player holds and who wears what.
type Collection struct {
	GeneralIDs   []int64            `json:"general_ids"`
	EquipmentIDs []int64            `json:"equipment_ids"`
	Assignments  map[int64][]string `json:"assignments"`
}

type Gallery struct {
	Generals   []*General   `json:"generals"`
	Equipments []*Equipment `json:"equipments"`
}
