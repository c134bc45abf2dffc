package services

import (
	"context"
	"database/sql"
	"sort"

	"sanguo/internal/datastore"
	"sanguo/internal/engine"
	"sanguo/internal/models"

	"github.com/cockroachdb/errors"
	"github.com/uptrace/bun"
)

func sortGenerals(generals []*models.General) {
	sort.SliceStable(generals, func(i, j int) bool {
		a, b := generals[i], generals[j]
		if a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		return a.ID < b.ID
	})
}

func sortEquipments(equipments []*models.Equipment) {
	sort.SliceStable(equipments, func(i, j int) bool {
		a, b := equipments[i], equipments[j]
		if a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.ID < b.ID
	})
}

func memberOf(owned *models.OwnedGeneral, general *models.General) engine.Member {
	m := engine.Member{
		ID:        owned.ID,
		GeneralID: owned.GeneralID,
		Name:      general.Name,
		Country:   general.Country,
		Skill:     general.SkillName,
		Stats:     engine.Stats{Str: general.Str, Int: general.Int, Ldr: general.Ldr, Luck: general.Luck},
		Level:     owned.Level,
		Exp:       owned.Exp,
		Evolution: owned.Evolution,
	}
	for _, e := range owned.Equipment {
		if e.Equipment != nil {
			m.EquipBonus = append(m.EquipBonus, e.Equipment.StatBonus)
		}
	}
	return m
}

// hydrate joins catalog data and attached equipment onto owned generals and
// returns their battle view in the same order.
func hydrate(ctx context.Context, db bun.IDB, catalog *Catalog, owned []*models.OwnedGeneral) ([]engine.Member, error) {
	ids := make([]int64, len(owned))
	for i, og := range owned {
		ids[i] = og.ID
	}

	attached, err := datastore.GetEquipmentsOfGenerals(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	byHolder := make(map[int64][]*models.OwnedEquipment, len(owned))
	for _, e := range attached {
		e.Equipment, _ = catalog.Equipment(e.EquipmentID)
		byHolder[*e.OwnedGeneralID] = append(byHolder[*e.OwnedGeneralID], e)
	}

	members := make([]engine.Member, len(owned))
	for i, og := range owned {
		general, ok := catalog.General(og.GeneralID)
		if !ok {
			return nil, errors.Wrapf(engine.ErrGeneralNotFound, "catalog general %d", og.GeneralID)
		}
		og.General = general
		og.Equipment = byHolder[og.ID]
		if og.Equipment == nil {
			og.Equipment = []*models.OwnedEquipment{}
		}
		members[i] = memberOf(og, general)
		og.Power = engine.Power(members[i])
	}
	return members, nil
}

func getPlayer(ctx context.Context, db bun.IDB, playerID int64) (*models.Player, error) {
	player, err := datastore.GetPlayerByID(ctx, db, playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(engine.ErrPlayerNotFound, "player %d", playerID)
	}
	return player, err
}

func getOwnedGeneral(ctx context.Context, db bun.IDB, playerID, ownedID int64) (*models.OwnedGeneral, error) {
	owned, err := datastore.GetOwnedGeneral(ctx, db, playerID, ownedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(engine.ErrGeneralNotFound, "owned general %d", ownedID)
	}
	return owned, err
}

func getOwnedEquipment(ctx context.Context, db bun.IDB, playerID, ownedID int64) (*models.OwnedEquipment, error) {
	owned, err := datastore.GetOwnedEquipment(ctx, db, playerID, ownedID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(engine.ErrEquipmentNotFound, "owned equipment %d", ownedID)
	}
	return owned, err
}

func sortInventory(items []*models.InventoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Equipment, items[j].Equipment
		if a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		if a.StatBonus != b.StatBonus {
			return a.StatBonus > b.StatBonus
		}
		return items[i].ID < items[j].ID
	})
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
