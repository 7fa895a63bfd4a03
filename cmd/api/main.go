package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maxicoffee/storefront/api/controllers"
	"github.com/maxicoffee/storefront/api/routes"
	"github.com/maxicoffee/storefront/internal/cart"
	"github.com/maxicoffee/storefront/internal/catalog"
	checkoutsvc "github.com/maxicoffee/storefront/internal/checkout"
	"github.com/maxicoffee/storefront/internal/discounts"
	"github.com/maxicoffee/storefront/pkg/coffeeapi"
	"github.com/maxicoffee/storefront/pkg/config"
	"github.com/maxicoffee/storefront/pkg/db"
	"github.com/maxicoffee/storefront/pkg/kv"
	"github.com/maxicoffee/storefront/pkg/logger"
	"github.com/maxicoffee/storefront/pkg/metrics"
	"github.com/maxicoffee/storefront/pkg/migrate"
	"github.com/maxicoffee/storefront/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

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

	// Carts default to Redis; the db backend exists for deployments that
	// want the slot table alongside their relational storage.
	var (
		slot     kv.Slot
		dbClient *db.Client
		dbPinger controllers.Pinger
	)
	switch cfg.Cart.Backend {
	case config.CartBackendDB:
		dbClient, err = db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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
		slot, err = kv.NewGormSlot(dbClient)
		if err != nil {
			logg.Error(context.Background(), "failed to build db cart slot", err)
			os.Exit(1)
		}
		dbPinger = dbClient
	default:
		slot, err = kv.NewRedisSlot(redisClient)
		if err != nil {
			logg.Error(context.Background(), "failed to build redis cart slot", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	storeMetrics := metrics.NewStorefrontMetrics(registry)

	upstream, err := coffeeapi.NewClient(context.Background(), cfg.Upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build upstream client", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(slot, cfg.Cart.KeyPrefix, logg, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build cart store", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog service", err)
		os.Exit(1)
	}
	discountService, err := discounts.NewService(upstream, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build discount service", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewReconciler(cartStore, discountService, upstream, logg, storeMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build checkout reconciler", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.Backend,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			dbPinger,
			upstream,
			catalogService,
			discountService,
			cartStore,
			checkoutService,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}
