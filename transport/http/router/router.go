package router

import (
	"github.com/go-chi/chi/v5"

	"tavolo/internal/handlers/booking"
	"tavolo/internal/handlers/restaurant"
)

type DomainHandlers struct {
	Restaurant restaurant.Handler
	Booking    booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Restaurant.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
