//go:build wireinject
// +build wireinject

package di

import (
	"taskly/config"
	"taskly/infras/jwt"
	"taskly/infras/kafka"
	"taskly/infras/otel"
	"taskly/infras/redis"
	homeHandler "taskly/internal/handlers/home"
	todoHandler "taskly/internal/handlers/todo"
	"taskly/shared/cache"
	"taskly/shared/store"
	"taskly/transport/http"
	"taskly/transport/http/middleware"
	"taskly/transport/http/router"

	todoEvent "taskly/internal/domains/todo/event"
	todoRepository "taskly/internal/domains/todo/repository"
	todoService "taskly/internal/domains/todo/service"

	"github.com/google/wire"

	authService "taskly/internal/domains/auth/service"
	userRepository "taskly/internal/domains/user/repository"
	authHandler "taskly/internal/handlers/auth"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	kafka.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	store.New,
)

var todoDomain = wire.NewSet(
	todoRepository.New,
	todoEvent.New,
	todoService.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var domains = wire.NewSet(
	todoDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	homeHandler.New,
	todoHandler.New,
	authHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func()) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return nil, nil
}
