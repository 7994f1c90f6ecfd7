//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"tavolo/config"
	"tavolo/infras/kafka"
	"tavolo/infras/otel"
	"tavolo/infras/postgres"
	"tavolo/infras/redis"
	"tavolo/shared/cache"
	"tavolo/shared/clock"
	"tavolo/shared/notifier"
	"tavolo/transport/http"
	"tavolo/transport/http/middleware"
	"tavolo/transport/http/router"

	"tavolo/internal/domains/booking/availability"
	bookingRepository "tavolo/internal/domains/booking/repository"
	bookingService "tavolo/internal/domains/booking/service"
	restaurantRepository "tavolo/internal/domains/restaurant/repository"
	restaurantService "tavolo/internal/domains/restaurant/service"

	bookingHandler "tavolo/internal/handlers/booking"
	restaurantHandler "tavolo/internal/handlers/restaurant"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisStore,
	cache.NewTieredCache,
	clock.New,
	notifier.New,
)

var restaurantDomain = wire.NewSet(
	restaurantRepository.New,
	restaurantService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	availability.New,
	bookingService.New,
)

var domains = wire.NewSet(
	restaurantDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	restaurantHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
