package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/metaxoft5/Nathan-Backend/api/controllers"
	"github.com/metaxoft5/Nathan-Backend/api/middleware"
	availabilitysvc "github.com/metaxoft5/Nathan-Backend/internal/availability"
	flavorsvc "github.com/metaxoft5/Nathan-Backend/internal/flavors"
	inventorysvc "github.com/metaxoft5/Nathan-Backend/internal/inventory"
	ordersvc "github.com/metaxoft5/Nathan-Backend/internal/orders"
	cartsvc "github.com/metaxoft5/Nathan-Backend/internal/packcart"
	recipesvc "github.com/metaxoft5/Nathan-Backend/internal/recipes"
	"github.com/metaxoft5/Nathan-Backend/pkg/config"
	"github.com/metaxoft5/Nathan-Backend/pkg/enums"
	"github.com/metaxoft5/Nathan-Backend/pkg/logger"
	pkgredis "github.com/metaxoft5/Nathan-Backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Flavors      flavorsvc.Service
	Recipes      recipesvc.Service
	Inventory    inventorysvc.Service
	Availability availabilitysvc.Service
	Cart         cartsvc.Service
	Orders       ordersvc.Service
	Products     controllers.ProductGetter
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	idempotencyStore pkgredis.IdempotencyStore,
	rateLimiter pkgredis.RateLimiter,
	svcs Services,
) http.Handler {
	throttleMutations := middleware.RateLimit(
		middleware.NewRateLimitPolicy("cart", cfg.RateLimit.MutationWindow, cfg.RateLimit.MutationLimit),
		rateLimiter,
		logg,
	)
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/packs", func(r chi.Router) {
			r.Get("/product", controllers.PackProduct(svcs.Products, svcs.Recipes, logg))
			r.Get("/recipes", controllers.PackRecipes(svcs.Recipes, logg))
			r.Get("/availability", controllers.PackAvailability(svcs.Availability, logg))
		})

		r.Route("/v1/pack-cart", func(r chi.Router) {
			r.Use(throttleMutations)
			r.Post("/", controllers.CartAdd(svcs.Cart, logg))
			r.Get("/", controllers.CartGet(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Patch("/{lineID}", controllers.CartUpdateLine(svcs.Cart, logg))
			r.Delete("/{lineID}", controllers.CartRemoveLine(svcs.Cart, logg))
		})

		r.With(throttleMutations).Post("/v1/checkout", controllers.Checkout(svcs.Orders, logg))

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.OrderGet(svcs.Orders, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.MemberRoleAdmin, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1/flavors", func(r chi.Router) {
			r.Get("/", controllers.AdminFlavorList(svcs.Flavors, logg))
			r.Post("/", controllers.AdminFlavorCreate(svcs.Flavors, logg))
			r.Get("/{flavorID}", controllers.AdminFlavorGet(svcs.Flavors, logg))
			r.Patch("/{flavorID}", controllers.AdminFlavorUpdate(svcs.Flavors, logg))
			r.Delete("/{flavorID}", controllers.AdminFlavorDelete(svcs.Flavors, logg))
		})

		r.Route("/v1/recipes", func(r chi.Router) {
			r.Get("/", controllers.AdminRecipeList(svcs.Recipes, logg))
			r.Post("/", controllers.AdminRecipeCreate(svcs.Recipes, logg))
			r.Get("/{recipeID}", controllers.AdminRecipeGet(svcs.Recipes, logg))
			r.Patch("/{recipeID}", controllers.AdminRecipeUpdate(svcs.Recipes, logg))
			r.Delete("/{recipeID}", controllers.AdminRecipeDelete(svcs.Recipes, logg))
		})

		r.Route("/v1/inventory", func(r chi.Router) {
			r.Get("/", controllers.AdminInventoryList(svcs.Inventory, logg))
			r.Post("/bulk", controllers.AdminInventoryBulkSetLevels(svcs.Inventory, logg))
			r.Get("/alerts", controllers.AdminInventoryLowStock(svcs.Inventory, cfg, logg))
			r.Get("/{flavorID}", controllers.AdminInventoryGet(svcs.Inventory, logg))
			r.Put("/{flavorID}", controllers.AdminInventorySetLevels(svcs.Inventory, logg))
		})

		r.Patch("/v1/orders/{orderID}/status", controllers.AdminOrderUpdateStatus(svcs.Orders, logg))
	})

	return r
}
