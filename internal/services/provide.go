package services

import (
	"github.com/samber/do"
)

// Provide registers every game service. Infrastructure (databases, caches,
// locker, limiter, logger and rules) must already be in the container.
func Provide(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ServiceConfig, error) {
		return NewServiceConfig(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceCatalog, error) {
		return NewServiceCatalog(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*ServicePlayer, error) {
		return NewServicePlayer(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceGacha, error) {
		return NewServiceGacha(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceBattle, error) {
		return NewServiceBattle(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceTeam, error) {
		return NewServiceTeam(injector)
	})

	do.Provide(injector, func(i *do.Injector) (*ServiceLeaderboard, error) {
		return NewServiceLeaderboard(injector)
	})
}
