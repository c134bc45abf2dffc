package engine

import (
	"sort"
)

// CanJoin checks whether an owned general of catalog id generalID may be added
// to a team whose members have the given catalog ids.
func CanJoin(team []int64, generalID int64, maxSize int) error {
	if len(team) >= maxSize {
		return ErrTeamFull
	}
	for _, id := range team {
		if id == generalID {
			return ErrDuplicateInTeam
		}
	}
	return nil
}

// AutoTeam picks up to maxSize members by base power, at most one per catalog
// general.
func AutoTeam(roster []Member, maxSize int) []Member {
	sorted := make([]Member, len(roster))
	copy(sorted, roster)
	sort.SliceStable(sorted, func(i, j int) bool {
		return BasePower(sorted[i]) > BasePower(sorted[j])
	})

	team := make([]Member, 0, maxSize)
	used := make(map[int64]bool, maxSize)
	for _, m := range sorted {
		if len(team) >= maxSize {
			break
		}
		if used[m.GeneralID] {
			continue
		}
		used[m.GeneralID] = true
		team = append(team, m)
	}
	return team
}

// Evolve consumes cost shards and returns the remaining balance.
func Evolve(shards, cost int) (int, error) {
	if cost <= 0 || shards < cost {
		return shards, ErrNotEnoughShards
	}
	return shards - cost, nil
}
