package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/menuvivo/menuvivo-backend/api/controllers"
	"github.com/menuvivo/menuvivo-backend/api/middleware"
	"github.com/menuvivo/menuvivo-backend/internal/extras"
	"github.com/menuvivo/menuvivo-backend/pkg/config"
	"github.com/menuvivo/menuvivo-backend/pkg/db"
	"github.com/menuvivo/menuvivo-backend/pkg/logger"
	"github.com/menuvivo/menuvivo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	resolver extras.Resolver,
	extrasService extras.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Route("/products/{productId}/extras", func(r chi.Router) {
			r.Get("/", controllers.ProductExtras(resolver, logg))
			r.Post("/validate", controllers.ValidateProductSelection(resolver, logg))
			r.Post("/quote", controllers.QuoteProductSelection(resolver, logg))
		})
	})

	r.Route("/api/v1/merchant", func(r chi.Router) {
		r.Route("/extra-groups", func(r chi.Router) {
			r.Get("/", controllers.ListExtraGroups(extrasService, logg))
			r.Post("/", controllers.CreateExtraGroup(extrasService, logg))
			r.Post("/reorder", controllers.ReorderExtraGroups(extrasService, logg))
			r.Route("/{groupId}", func(r chi.Router) {
				r.Get("/", controllers.GetExtraGroup(extrasService, logg))
				r.Patch("/", controllers.UpdateExtraGroup(extrasService, logg))
				r.Delete("/", controllers.DeleteExtraGroup(extrasService, logg))
				r.Put("/category", controllers.SetExtraGroupCategory(extrasService, logg))
				r.Post("/extras/reorder", controllers.ReorderGroupExtras(extrasService, logg))
				r.Post("/products/{productId}", controllers.AssignExtraGroup(extrasService, logg))
				r.Delete("/products/{productId}", controllers.UnassignExtraGroup(extrasService, logg))
			})
		})

		r.Get("/categories/{categoryId}/extra-groups", controllers.ListCategoryExtraGroups(extrasService, logg))

		r.Route("/products/{productId}", func(r chi.Router) {
			r.Get("/group-overrides", controllers.ListProductGroupOverrides(extrasService, logg))
			r.Put("/group-overrides/{groupId}", controllers.SetProductGroupOverride(extrasService, logg))
			r.Get("/ungrouped-extras", controllers.ListUngroupedProductExtras(extrasService, logg))
		})

		r.Route("/extras", func(r chi.Router) {
			r.Post("/", controllers.CreateProductExtra(extrasService, logg))
			r.Patch("/{extraId}", controllers.UpdateProductExtra(extrasService, logg))
			r.Delete("/{extraId}", controllers.DeleteProductExtra(extrasService, logg))
		})
	})

	return r
}
