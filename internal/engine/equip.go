package engine

import (
	"sort"
)

type Slot string

const (
	SlotWeapon   Slot = "weapon"
	SlotArmor    Slot = "armor"
	SlotTreasure Slot = "treasure"
)

var Slots = []Slot{SlotWeapon, SlotArmor, SlotTreasure}

func (s Slot) Valid() bool {
	switch s {
	case SlotWeapon, SlotArmor, SlotTreasure:
		return true
	}
	return false
}

type Item struct {
	ID    int64
	Slot  Slot
	Bonus int
	Stars int
}

// BestPerSlot picks the strongest item of every slot, by bonus then stars.
// Ties keep the lowest id so the choice is stable.
func BestPerSlot(items []Item) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Bonus != b.Bonus {
			return a.Bonus > b.Bonus
		}
		if a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		return a.ID < b.ID
	})

	picked := make([]Item, 0, len(Slots))
	taken := make(map[Slot]bool, len(Slots))
	for _, it := range sorted {
		if !it.Slot.Valid() || taken[it.Slot] {
			continue
		}
		taken[it.Slot] = true
		picked = append(picked, it)
	}
	return picked
}
