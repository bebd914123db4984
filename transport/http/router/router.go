package router

import (
	_ "taskly/docs" // registers the swagger spec served under /documentation
	"taskly/internal/handlers/auth"
	"taskly/internal/handlers/home"
	"taskly/internal/handlers/todo"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Home home.Handler
	Auth auth.Handler
	Todo todo.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	r.DomainHandlers.Home.Router(router)
	r.DomainHandlers.Auth.Router(router)
	r.DomainHandlers.Todo.Router(router)

	router.Get("/documentation/*", httpSwagger.Handler(httpSwagger.URL("/documentation/doc.json")))
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
