package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/qtyoffers/api/controllers"
	"github.com/angelmondragon/qtyoffers/api/routes"
	"github.com/angelmondragon/qtyoffers/internal/cart"
	"github.com/angelmondragon/qtyoffers/internal/offers"
	"github.com/angelmondragon/qtyoffers/internal/storefront"
	"github.com/angelmondragon/qtyoffers/pkg/config"
	"github.com/angelmondragon/qtyoffers/pkg/db"
	"github.com/angelmondragon/qtyoffers/pkg/env"
	"github.com/angelmondragon/qtyoffers/pkg/logger"
	"github.com/angelmondragon/qtyoffers/pkg/metrics"
	"github.com/angelmondragon/qtyoffers/pkg/migrate"
	"github.com/angelmondragon/qtyoffers/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

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
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	pingers := map[string]controllers.Pinger{"database": dbClient}

	var cache *offers.Cache
	if cfg.Redis.Enabled() && cfg.FeatureFlags.OfferCache {
		var redisClient *redis.Client
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
		cache = offers.NewCache(redisClient, cfg.Pricing.CacheTTL)
		pingers["redis"] = redisClient
	} else {
		logg.Info(ctx, "offers cache disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pricingMetrics := metrics.NewPricingMetrics(registry)

	offerService, err := offers.NewService(offers.ServiceParams{
		Repo:                offers.NewRepository(dbClient.DB()),
		DB:                  dbClient,
		Cache:               cache,
		Metrics:             pricingMetrics,
		Logger:              logg,
		PlaceholderQuantity: cfg.Pricing.DefaultQuantity,
	})
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(offerService, pricingMetrics, logg)
	if err != nil {
		return err
	}
	storefrontService, err := storefront.NewService(offerService, cfg.Pricing.AutoSubmit)
	if err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx = logg.WithField(ctx, "addr", addr)

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:     cfg,
			Logger:     logg,
			Gatherer:   registry,
			Pingers:    pingers,
			Offers:     offerService,
			Cart:       cartService,
			Storefront: storefrontService,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
