package router

import (
	"vcardops/internal/handlers/auth"
	"vcardops/internal/handlers/card"
	"vcardops/internal/handlers/hotel"
	"vcardops/internal/handlers/payment"
	"vcardops/internal/handlers/reservation"
	"vcardops/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

const apiPrefix = "/api"

type DomainHandlers struct {
	Auth        auth.Handler
	Reservation reservation.Handler
	Card        card.Handler
	Payment     payment.Handler
	Hotel       hotel.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	authRole       middleware.AuthRole
}

// SetupRoutes mounts every domain under /api behind authentication and RBAC.
// Public endpoints are marked skip in permissions.json.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route(apiPrefix, func(routerGroup chi.Router) {
		routerGroup.Use(r.authRole.APIKey, r.authRole.Auth, r.authRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Card.Router(routerGroup)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Hotel.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		authRole:       authRole,
	}
}
