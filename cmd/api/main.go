package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ojvaldez/storefront-admin-backend/api/controllers"
	"github.com/ojvaldez/storefront-admin-backend/api/routes"
	"github.com/ojvaldez/storefront-admin-backend/internal/billboards"
	"github.com/ojvaldez/storefront-admin-backend/internal/categories"
	"github.com/ojvaldez/storefront-admin-backend/internal/colors"
	"github.com/ojvaldez/storefront-admin-backend/internal/discounts"
	"github.com/ojvaldez/storefront-admin-backend/internal/products"
	"github.com/ojvaldez/storefront-admin-backend/internal/sizes"
	"github.com/ojvaldez/storefront-admin-backend/internal/stores"
	"github.com/ojvaldez/storefront-admin-backend/pkg/config"
	"github.com/ojvaldez/storefront-admin-backend/pkg/db"
	"github.com/ojvaldez/storefront-admin-backend/pkg/logger"
	"github.com/ojvaldez/storefront-admin-backend/pkg/metrics"
	"github.com/ojvaldez/storefront-admin-backend/pkg/migrate"
	"github.com/ojvaldez/storefront-admin-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storesService, err := stores.NewService(stores.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create stores service", err)
		os.Exit(1)
	}

	discountsService, err := discounts.NewService(discounts.NewRepository(dbClient.DB()), storesService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create discounts service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(products.NewRepository(dbClient.DB()), storesService, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	billboardsService, err := billboards.NewService(billboards.NewRepository(dbClient.DB()), storesService)
	if err != nil {
		logg.Error(context.Background(), "failed to create billboards service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categories.NewRepository(dbClient.DB()), storesService)
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	sizesService, err := sizes.NewService(sizes.NewRepository(dbClient.DB()), storesService)
	if err != nil {
		logg.Error(context.Background(), "failed to create sizes service", err)
		os.Exit(1)
	}

	colorsService, err := colors.NewService(colors.NewRepository(dbClient.DB()), storesService)
	if err != nil {
		logg.Error(context.Background(), "failed to create colors service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			HTTPMetrics: metrics.NewHTTPMetrics(registry),
			Registry:    registry,
			Idempotency: redisClient,
			Health: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			Stores:     storesService,
			Discounts:  discountsService,
			Products:   productsService,
			Billboards: billboardsService,
			Categories: categoriesService,
			Sizes:      sizesService,
			Colors:     colorsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
