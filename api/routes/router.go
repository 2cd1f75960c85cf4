package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/exactmatch/storefront/api/controllers"
	"github.com/exactmatch/storefront/api/middleware"
	checkoutsvc "github.com/exactmatch/storefront/internal/checkout"
	"github.com/exactmatch/storefront/internal/orders"
	"github.com/exactmatch/storefront/pkg/config"
	"github.com/exactmatch/storefront/pkg/logger"
)

// Shelves holds the long-lived battery listing resources the gateway serves.
type Shelves struct {
	Browse   *controllers.BatteryShelf
	Featured *controllers.BatteryShelf
	Popular  *controllers.BatteryShelf
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	catalogService controllers.CatalogService,
	shelves Shelves,
	cartStore controllers.CartStore,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	readiness map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/batteries", func(r chi.Router) {
			r.Get("/", controllers.BrowseBatteries(shelves.Browse, catalogService, logg))
			r.Get("/featured", controllers.FeaturedBatteries(shelves.Featured, catalogService, logg))
			r.Get("/popular", controllers.PopularBatteries(shelves.Popular, catalogService, logg))
			r.Get("/search", controllers.SearchBatteries(catalogService, logg))
			r.Get("/{batteryId}", controllers.BatteryDetail(catalogService, logg))
		})
		r.Get("/categories", controllers.Categories(catalogService, logg))
		r.Get("/brands", controllers.Brands(catalogService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartStore, logg))
			r.Delete("/", controllers.CartClear(cartStore, logg))
			r.Post("/items", controllers.CartAddItem(cartStore, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartStore, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartStore, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(ordersService, logg))
			r.Get("/latest", controllers.LatestOrder(ordersService, logg))
		})
	})

	return r
}
