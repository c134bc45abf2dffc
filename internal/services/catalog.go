package services

import (
	"context"
	"math/rand"

	"sanguo/internal/config"
	"sanguo/internal/datastore"
	"sanguo/internal/engine"
	"sanguo/internal/models"
	"sanguo/internal/pkg/caching"

	"github.com/cockroachdb/errors"
	"github.com/mroth/weightedrand/v2"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Catalog is an immutable view of the seeded generals, equipment and
// campaigns. Build it before opening a transaction; it never touches the db.
type Catalog struct {
	Generals   []*models.General
	Equipments []*models.Equipment
	Campaigns  []*models.Campaign

	generals   map[int64]*models.General
	equipments map[int64]*models.Equipment
	campaigns  map[int64]*models.Campaign
	tiers      map[int]*Sampler[int64]
}

func NewCatalog(generals []*models.General, equipments []*models.Equipment, campaigns []*models.Campaign) (*Catalog, error) {
	c := &Catalog{
		Generals:   generals,
		Equipments: equipments,
		Campaigns:  campaigns,
		generals:   make(map[int64]*models.General, len(generals)),
		equipments: make(map[int64]*models.Equipment, len(equipments)),
		campaigns:  make(map[int64]*models.Campaign, len(campaigns)),
		tiers:      map[int]*Sampler[int64]{},
	}

	byTier := map[int][]weightedrand.Choice[int64, int]{}
	for _, g := range generals {
		c.generals[g.ID] = g
		byTier[g.Stars] = append(byTier[g.Stars], weightedrand.NewChoice(g.ID, weightOf(g.Weight)))
	}
	for tier, choices := range byTier {
		s, err := NewSampler(choices)
		if err != nil {
			return nil, errors.Wrapf(err, "tier %d", tier)
		}
		c.tiers[tier] = s
	}
	for _, e := range equipments {
		c.equipments[e.ID] = e
	}
	for _, cp := range campaigns {
		c.campaigns[cp.ID] = cp
	}
	return c, nil
}

func (c *Catalog) General(id int64) (*models.General, bool) {
	g, ok := c.generals[id]
	return g, ok
}

func (c *Catalog) Equipment(id int64) (*models.Equipment, bool) {
	e, ok := c.equipments[id]
	return e, ok
}

func (c *Catalog) Campaign(id int64) (*models.Campaign, bool) {
	cp, ok := c.campaigns[id]
	return cp, ok
}

func (c *Catalog) GeneralByName(name string) (*models.General, bool) {
	for _, g := range c.Generals {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

func (c *Catalog) EquipmentByName(name string) (*models.Equipment, bool) {
	for _, e := range c.Equipments {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Pool draws catalog generals of a tier with rng.
func (c *Catalog) Pool(rng *rand.Rand) engine.Pool {
	return &catalogPool{c, rng}
}

// SampleEquipment picks one catalog item of at most maxStars, or nil when
// there is none.
func (c *Catalog) SampleEquipment(rng *rand.Rand, maxStars int) (*models.Equipment, error) {
	var choices []weightedrand.Choice[int64, int]
	for _, e := range c.Equipments {
		if e.Stars <= maxStars {
			choices = append(choices, weightedrand.NewChoice(e.ID, weightOf(e.Weight)))
		}
	}
	if len(choices) == 0 {
		return nil, nil
	}

	s, err := NewSampler(choices)
	if err != nil {
		return nil, err
	}
	return c.equipments[s.Pick(rng)], nil
}

type catalogPool struct {
	catalog *Catalog
	rng     *rand.Rand
}

func (p *catalogPool) Pick(tier int) (int64, error) {
	s, ok := p.catalog.tiers[tier]
	if !ok {
		return 0, errors.Wrapf(engine.ErrEmptyCatalogTier, "tier %d", tier)
	}
	return s.Pick(p.rng), nil
}

type ServiceCatalog struct {
	container          *do.Injector
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache
	logger             *zap.Logger
}

func NewServiceCatalog(container *do.Injector) (*ServiceCatalog, error) {
	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		return nil, err
	}

	return &ServiceCatalog{container, postgresDB, readonlyPostgresDB, cache, readonlyCache, logger.Named("catalog")}, nil
}

func (service *ServiceCatalog) Snapshot(ctx context.Context) (*Catalog, error) {
	generals, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyCatalogGenerals(), CACHE_TTL_5_MINS, func() ([]*models.General, error) {
		return datastore.GetGenerals(ctx, service.readonlyPostgresDB)
	})
	if err != nil {
		return nil, err
	}

	equipments, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyCatalogEquipments(), CACHE_TTL_5_MINS, func() ([]*models.Equipment, error) {
		return datastore.GetEquipments(ctx, service.readonlyPostgresDB)
	})
	if err != nil {
		return nil, err
	}

	campaigns, err := caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyCatalogCampaigns(), CACHE_TTL_5_MINS, func() ([]*models.Campaign, error) {
		return datastore.GetCampaigns(ctx, service.readonlyPostgresDB)
	})
	if err != nil {
		return nil, err
	}

	return NewCatalog(generals, equipments, campaigns)
}

// Gallery lists the whole catalog, strongest first.
func (service *ServiceCatalog) Gallery(ctx context.Context) (*models.Gallery, error) {
	catalog, err := service.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	generals := append([]*models.General(nil), catalog.Generals...)
	sortGenerals(generals)
	equipments := append([]*models.Equipment(nil), catalog.Equipments...)
	sortEquipments(equipments)
	return &models.Gallery{Generals: generals, Equipments: equipments}, nil
}

// Seed upserts every catalog entry by name, so running it twice is harmless.
func (service *ServiceCatalog) Seed(ctx context.Context, seed *config.Catalog) error {
	err := service.postgresDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, g := range seed.Generals {
			err := datastore.UpsertGeneral(ctx, tx, &models.General{
				Name:        g.Name,
				Stars:       g.Stars,
				Str:         g.Str,
				Int:         g.Int,
				Ldr:         g.Ldr,
				Luck:        g.Luck,
				Country:     g.Country,
				Description: g.Description,
				SkillName:   g.Skill,
				SkillDesc:   g.SkillDesc,
				Weight:      weightOf(g.Weight),
			})
			if err != nil {
				return errors.Wrapf(err, "general %s", g.Name)
			}
		}

		for _, e := range seed.Equipment {
			err := datastore.UpsertEquipment(ctx, tx, &models.Equipment{
				Name:      e.Name,
				Type:      e.Type,
				StatBonus: e.StatBonus,
				Stars:     e.Stars,
				Weight:    weightOf(e.Weight),
			})
			if err != nil {
				return errors.Wrapf(err, "equipment %s", e.Name)
			}
		}

		for _, c := range seed.Campaigns {
			err := datastore.UpsertCampaign(ctx, tx, &models.Campaign{
				Name:          c.Name,
				RequiredPower: c.RequiredPower,
				Gold:          c.Gold,
				Exp:           c.Exp,
			})
			if err != nil {
				return errors.Wrapf(err, "campaign %s", c.Name)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	service.logger.Info("catalog seeded",
		zap.Int("generals", len(seed.Generals)),
		zap.Int("equipment", len(seed.Equipment)),
		zap.Int("campaigns", len(seed.Campaigns)),
	)
	return service.Invalidate(ctx)
}

func (service *ServiceCatalog) Invalidate(ctx context.Context) error {
	for _, key := range []string{DBKeyCatalogGenerals(), DBKeyCatalogEquipments(), DBKeyCatalogCampaigns()} {
		if err := service.cache.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
