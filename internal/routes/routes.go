package routes

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/roster/internal/auth"
	"github.com/BradenHooton/roster/internal/handlers"
	"github.com/BradenHooton/roster/internal/middleware"
)

// Handlers groups the HTTP handlers served by RegisterRoutes.
type Handlers struct {
	Members *handlers.MemberHandler
	Teams   *handlers.TeamHandler
	Items   *handlers.ItemHandler
	Orders  *handlers.OrderHandler
}

// Options configures request attribution and search rate limiting.
// A nil TokenManager makes every request anonymous.
type Options struct {
	TokenManager *auth.TokenManager
	SearchLimit  middleware.RateLimitConfig
	Logger       *slog.Logger
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, h Handlers, opts Options) {
	router.Group(func(r chi.Router) {
		r.Use(auth.PrincipalMiddleware(opts.TokenManager, opts.Logger))
		r.Use(middleware.CapturePrincipal)

		// Search endpoints run the heaviest queries
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(opts.SearchLimit))
			r.Get("/v1/members", h.Members.SearchV1)
			r.Get("/v1/members/slice", h.Members.SearchSlice)
			r.Get("/v2/members", h.Members.SearchV2)
			r.Get("/v3/members", h.Members.SearchV3)
			r.Get("/v2/orders", h.Orders.SearchOrdersPage)
		})

		r.Route("/members", func(r chi.Router) {
			r.Get("/", h.Members.ListMembers)
			r.Post("/", h.Members.CreateMember)
			r.Get("/usernames", h.Members.Usernames)
			r.Get("/by-names", h.Members.FindByNames)
			r.Get("/by-username", h.Members.FindByUsername)
			r.Get("/teams", h.Members.MemberTeams)
			r.Post("/bulk-age", h.Members.BulkAgePlus)
			r.Get("/{id}", h.Members.GetMember)
			r.Put("/{id}/team", h.Members.ChangeTeam)
			r.Delete("/{id}", h.Members.DeleteMember)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Teams.ListTeams)
			r.Post("/", h.Teams.CreateTeam)
			r.Get("/{id}", h.Teams.GetTeam)
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.Items.ListItems)
			r.Post("/", h.Items.CreateItem)
			r.Get("/{id}", h.Items.GetItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.SearchOrders)
			r.Post("/", h.Orders.PlaceOrder)
			r.Get("/{id}", h.Orders.GetOrder)
			r.Post("/{id}/cancel", h.Orders.CancelOrder)
		})
	})
}
