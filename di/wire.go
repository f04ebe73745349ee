//go:build wireinject
// +build wireinject

package di

import (
	"vcardops/config"
	"vcardops/infras/database"
	"vcardops/infras/gateway"
	"vcardops/infras/jwt"
	"vcardops/infras/kafka"
	"vcardops/infras/metrics"
	"vcardops/infras/otel"
	"vcardops/infras/redis"
	"vcardops/infras/s3"
	"vcardops/permissions"
	"vcardops/shared/cache"
	gRepo "vcardops/shared/repository"
	"vcardops/transport/http"
	"vcardops/transport/http/middleware"
	"vcardops/transport/http/router"

	authService "vcardops/internal/domains/auth/service"
	exportService "vcardops/internal/domains/export/service"
	hotelRepository "vcardops/internal/domains/hotel/repository"
	hotelService "vcardops/internal/domains/hotel/service"
	paymentService "vcardops/internal/domains/payment/service"
	reservationRepository "vcardops/internal/domains/reservation/repository"
	reservationService "vcardops/internal/domains/reservation/service"
	transactionRepository "vcardops/internal/domains/transaction/repository"
	transactionService "vcardops/internal/domains/transaction/service"
	userRepository "vcardops/internal/domains/user/repository"

	authHandler "vcardops/internal/handlers/auth"
	cardHandler "vcardops/internal/handlers/card"
	eventHandler "vcardops/internal/handlers/event"
	hotelHandler "vcardops/internal/handlers/hotel"
	paymentHandler "vcardops/internal/handlers/payment"
	reservationHandler "vcardops/internal/handlers/reservation"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	database.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	metrics.New,
	s3.New,
	gateway.NewFromConfig,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var hotelDomain = wire.NewSet(
	hotelRepository.New,
	hotelService.New,
)

var transactionDomain = wire.NewSet(
	transactionRepository.New,
	transactionService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	reservationDomain,
	hotelDomain,
	transactionDomain,
	authDomain,
	paymentService.New,
	exportService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	reservationHandler.New,
	cardHandler.New,
	paymentHandler.New,
	hotelHandler.New,
	router.New,
)

var events = wire.NewSet(
	eventHandler.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		events,
		http.New,
	)

	return &http.HTTP{}
}
