package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alienstore/storefront-gateway/config"
	"github.com/alienstore/storefront-gateway/internal/app/controller"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/internal/app/service"
	"github.com/alienstore/storefront-gateway/internal/db"
	"github.com/alienstore/storefront-gateway/internal/middleware"
	"github.com/alienstore/storefront-gateway/internal/router"
	"github.com/alienstore/storefront-gateway/internal/scheduler"
	"github.com/alienstore/storefront-gateway/internal/storage"
	ws "github.com/alienstore/storefront-gateway/internal/websocket"
	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/alienstore/storefront-gateway/pkg/redis"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting AlienStore storefront gateway", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"upstream":    cfg.Upstream.BaseURL,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Upstream client
	upstream, err := storeapi.NewClient(storeapi.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create upstream client", err)
	}

	// Redis backs the selection store and the catalog cache; without it the
	// gateway falls back to process-local state.
	var selectionRepo repository.SelectionRepository
	var catalogCache repository.CatalogCache
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, using in-memory selection store", map[string]interface{}{
			"error": err.Error(),
		})
		selectionRepo = repository.NewMemorySelectionRepository()
	} else {
		defer redis.Close()
		selectionRepo = repository.NewSelectionRepository(redis.GetClient())
		catalogCache = repository.NewCatalogCache(redis.GetClient())
	}

	// Initialize repositories
	orderRecordRepo := repository.NewOrderRecordRepository(db.GetDB())

	// WebSocket hub for payment events
	hub := ws.NewHub()
	go hub.Run()

	// Payment watcher
	watcher := service.NewPaymentWatcher(
		upstream,
		orderRecordRepo,
		hub,
		service.NewRealClock(),
		cfg.Payment.PollInterval,
		cfg.Payment.PollTimeout,
	)
	defer watcher.Stop()

	// Initialize services
	cartService := service.NewCartService(upstream, selectionRepo)
	selectionService := service.NewSelectionService(upstream, selectionRepo)
	checkoutService := service.NewCheckoutService(upstream, selectionRepo, watcher)
	orderService := service.NewOrderService(orderRecordRepo)
	catalogService := service.NewCatalogService(upstream, catalogCache)

	var uploader service.ReportUploader
	if cfg.S3.Bucket != "" {
		uploader = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}
	reportService := service.NewReportService(orderRecordRepo, upstream, uploader)

	// Initialize controllers
	cartController := controller.NewCartController(cartService, selectionService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	paymentController := controller.NewPaymentController(upstream, watcher, hub)
	orderController := controller.NewOrderController(orderService)
	catalogController := controller.NewCatalogController(catalogService)
	reportController := controller.NewReportController(reportService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly report export
	if cfg.Report.Enabled && uploader != nil {
		reportScheduler := scheduler.NewReportScheduler(reportService, cfg.Report)
		if err := reportScheduler.Start(); err != nil {
			logger.Error("Failed to start report scheduler", err)
		} else {
			defer reportScheduler.Stop()
		}
	}

	// Setup router
	r := router.NewRouter(
		cartController,
		checkoutController,
		paymentController,
		orderController,
		catalogController,
		reportController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": server.Addr,
			"pid":     os.Getpid(),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", err)
	}

	logger.Info("Server stopped successfully")
}
