package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fulfilment-platform/fulfilment/internal/app"
	"github.com/fulfilment-platform/fulfilment/internal/fulfillment"
	"github.com/fulfilment-platform/fulfilment/internal/location"
	"github.com/fulfilment-platform/fulfilment/internal/observability"
	"github.com/fulfilment-platform/fulfilment/internal/platform/cache"
	"github.com/fulfilment-platform/fulfilment/internal/platform/db"
	"github.com/fulfilment-platform/fulfilment/internal/product"
	"github.com/fulfilment-platform/fulfilment/internal/shared"
	"github.com/fulfilment-platform/fulfilment/internal/store"
	"github.com/fulfilment-platform/fulfilment/internal/warehouse"
	"github.com/fulfilment-platform/fulfilment/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// The read cache is an optimisation; the service stays up without Redis.
	var listCache *cache.Cache
	redisClient, err := cache.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", slog.Any("error", err))
	} else {
		listCache = cache.New(redisClient, cfg.CacheTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	locations := location.NewCatalog()
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	warehouseRepo := warehouse.NewRepository(dbpool)
	warehouseValidator := warehouse.NewValidator(locations)
	warehouseService := warehouse.NewService(warehouseRepo, warehouseValidator, listCache)
	warehouseHandler := warehouse.NewHandler(logger, warehouseService)

	productRepo := product.NewRepository(dbpool)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(logger, productService)

	storeRepo := store.NewRepository(dbpool)
	storeService := store.NewService(storeRepo, jobClient, logger)
	storeHandler := store.NewHandler(logger, storeService)

	fulfillmentRepo := fulfillment.NewRepository(dbpool)
	fulfillmentService := fulfillment.NewService(fulfillmentRepo, warehouseRepo, productRepo, storeRepo)
	fulfillmentHandler := fulfillment.NewHandler(logger, fulfillmentService, idempotencyStore)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		WarehouseHandler:   warehouseHandler,
		FulfillmentHandler: fulfillmentHandler,
		ProductHandler:     productHandler,
		StoreHandler:       storeHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
