package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ojvaldez/storefront-admin-backend/api/controllers"
	"github.com/ojvaldez/storefront-admin-backend/api/middleware"
	"github.com/ojvaldez/storefront-admin-backend/internal/billboards"
	"github.com/ojvaldez/storefront-admin-backend/internal/categories"
	"github.com/ojvaldez/storefront-admin-backend/internal/colors"
	"github.com/ojvaldez/storefront-admin-backend/internal/discounts"
	"github.com/ojvaldez/storefront-admin-backend/internal/products"
	"github.com/ojvaldez/storefront-admin-backend/internal/sizes"
	"github.com/ojvaldez/storefront-admin-backend/internal/stores"
	"github.com/ojvaldez/storefront-admin-backend/pkg/config"
	"github.com/ojvaldez/storefront-admin-backend/pkg/logger"
	"github.com/ojvaldez/storefront-admin-backend/pkg/metrics"
	pkgredis "github.com/ojvaldez/storefront-admin-backend/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
	Idempotency pkgredis.IdempotencyStore
	Health      map[string]controllers.Pinger

	Stores     stores.Service
	Discounts  discounts.Service
	Products   products.Service
	Billboards billboards.Service
	Categories categories.Service
	Sizes      sizes.Service
	Colors     colors.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.CORS(),
		middleware.Logging(d.Logger),
		middleware.Metrics(d.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.Health))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Config.JWT, d.Logger))

		r.Route("/stores", func(r chi.Router) {
			r.With(middleware.Idempotency(d.Idempotency, d.Logger)).
				Post("/", controllers.StoreCreate(d.Stores, d.Logger))
			r.Get("/", controllers.StoreList(d.Stores, d.Logger))

			r.Route("/{storeId}", func(r chi.Router) {
				r.Use(
					middleware.StoreContext(d.Logger),
					middleware.Idempotency(d.Idempotency, d.Logger),
				)

				r.Get("/", controllers.StoreGet(d.Stores, d.Logger))
				r.Put("/", controllers.StoreUpdate(d.Stores, d.Logger))
				r.Delete("/", controllers.StoreDelete(d.Stores, d.Logger))

				r.Route("/discounts", func(r chi.Router) {
					r.Post("/", controllers.DiscountCreate(d.Discounts, d.Logger))
					r.Get("/", controllers.DiscountList(d.Discounts, d.Logger))
					r.Route("/{discountId}", func(r chi.Router) {
						r.Get("/", controllers.DiscountGet(d.Discounts, d.Logger))
						r.Put("/", controllers.DiscountUpdate(d.Discounts, d.Logger))
						r.Delete("/", controllers.DiscountDelete(d.Discounts, d.Logger))
						r.Post("/products/attach", controllers.DiscountAttachProducts(d.Discounts, d.Logger))
						r.Post("/products/detach", controllers.DiscountDetachProducts(d.Discounts, d.Logger))
					})
				})

				r.Route("/products", func(r chi.Router) {
					r.Post("/", controllers.ProductCreate(d.Products, d.Logger))
					r.Get("/", controllers.ProductList(d.Products, d.Logger))
					r.Route("/{productId}", func(r chi.Router) {
						r.Get("/", controllers.ProductGet(d.Products, d.Logger))
						r.Put("/", controllers.ProductUpdate(d.Products, d.Logger))
						r.Delete("/", controllers.ProductDelete(d.Products, d.Logger))
					})
				})

				r.Route("/billboards", func(r chi.Router) {
					r.Post("/", controllers.BillboardCreate(d.Billboards, d.Logger))
					r.Get("/", controllers.BillboardList(d.Billboards, d.Logger))
					r.Route("/{billboardId}", func(r chi.Router) {
						r.Get("/", controllers.BillboardGet(d.Billboards, d.Logger))
						r.Put("/", controllers.BillboardUpdate(d.Billboards, d.Logger))
						r.Delete("/", controllers.BillboardDelete(d.Billboards, d.Logger))
					})
				})

				r.Route("/categories", func(r chi.Router) {
					r.Post("/", controllers.CategoryCreate(d.Categories, d.Logger))
					r.Get("/", controllers.CategoryList(d.Categories, d.Logger))
					r.Route("/{categoryId}", func(r chi.Router) {
						r.Get("/", controllers.CategoryGet(d.Categories, d.Logger))
						r.Put("/", controllers.CategoryUpdate(d.Categories, d.Logger))
						r.Delete("/", controllers.CategoryDelete(d.Categories, d.Logger))
					})
				})

				r.Route("/sizes", func(r chi.Router) {
					r.Post("/", controllers.SizeCreate(d.Sizes, d.Logger))
					r.Get("/", controllers.SizeList(d.Sizes, d.Logger))
					r.Route("/{sizeId}", func(r chi.Router) {
						r.Get("/", controllers.SizeGet(d.Sizes, d.Logger))
						r.Put("/", controllers.SizeUpdate(d.Sizes, d.Logger))
						r.Delete("/", controllers.SizeDelete(d.Sizes, d.Logger))
					})
				})

				r.Route("/colors", func(r chi.Router) {
					r.Post("/", controllers.ColorCreate(d.Colors, d.Logger))
					r.Get("/", controllers.ColorList(d.Colors, d.Logger))
					r.Route("/{colorId}", func(r chi.Router) {
						r.Get("/", controllers.ColorGet(d.Colors, d.Logger))
						r.Put("/", controllers.ColorUpdate(d.Colors, d.Logger))
						r.Delete("/", controllers.ColorDelete(d.Colors, d.Logger))
					})
				})
			})
		})
	})

	return r
}
