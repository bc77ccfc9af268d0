package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/qtyoffers/api/controllers"
	"github.com/angelmondragon/qtyoffers/api/middleware"
	"github.com/angelmondragon/qtyoffers/internal/cart"
	"github.com/angelmondragon/qtyoffers/internal/offers"
	"github.com/angelmondragon/qtyoffers/internal/storefront"
	"github.com/angelmondragon/qtyoffers/pkg/auth"
	"github.com/angelmondragon/qtyoffers/pkg/config"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
)

// Dependencies groups everything the router hands to controllers.
type Dependencies struct {
	Config     *config.Config
	Logger     *logger.Logger
	Gatherer   prometheus.Gatherer
	Pingers    map[string]controllers.Pinger
	Offers     offers.Service
	Cart       cart.Service
	Storefront storefront.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products/{productId}/quantity-offers", controllers.StorefrontOffers(deps.Storefront, logg))
		r.Post("/cart/recalculate", controllers.CartRecalculate(deps.Cart, cfg.Pricing.MaxApplications, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, auth.RoleAdmin, auth.RoleShopManager))

		r.Route("/products/{productId}/quantity-offers", func(r chi.Router) {
			r.Get("/", controllers.AdminGetOffers(deps.Offers, logg))
			r.Put("/", controllers.AdminSaveOffers(deps.Offers, logg))
			r.Delete("/", controllers.AdminClearOffers(deps.Offers, logg))
		})
	})

	return r
}
