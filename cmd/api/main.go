// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-bff/internal/config"
	"github.com/your-org/storefront-bff/internal/domain/catalog"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/order"
	"github.com/your-org/storefront-bff/internal/domain/session"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
	"github.com/your-org/storefront-bff/internal/infrastructure/database/redis"
	"github.com/your-org/storefront-bff/internal/infrastructure/geocode"
	"github.com/your-org/storefront-bff/internal/interfaces/http"
	"github.com/your-org/storefront-bff/internal/interfaces/http/routes"
	"github.com/your-org/storefront-bff/internal/pkg/auth"
	"github.com/your-org/storefront-bff/internal/pkg/logger"
	"github.com/your-org/storefront-bff/internal/pkg/pdf"
)

// sweepInterval is how often idle sessions are looked for
const sweepInterval = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)
	appLogger.WithFields(logrus.Fields{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("Starting service")

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	healthCtx, healthCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Health(healthCtx); err != nil {
		healthCancel()
		appLogger.WithError(err).Fatal("Redis health check failed")
	}
	healthCancel()

	snapshots := redis.NewSnapshotStore(redisClient, cfg.Cache.CartSnapshotTTL, cfg.Cache.CatalogSnapshotTTL)

	remote := api.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, nil, appLogger)
	sessions := session.NewRegistry(snapshots, appLogger)

	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   appLogger,
		Remote:   remote,
		Sessions: sessions,
		Catalog:  catalog.NewService(snapshots, appLogger),
		Orders:   order.NewService(appLogger),
		Detector: checkout.NewDetector(geocode.NewClient(cfg.Geocoding), cfg.Geocoding.GeolocationTimeout, appLogger),
		Receipts: pdf.NewService(cfg.Receipt),
		JWT:      auth.NewJWTManager(cfg),
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Forget sessions nobody has used for as long as their token lives
	go sessions.Run(ctx, sweepInterval, cfg.JWT.SessionExpiry)

	// Create and start HTTP server
	server := http.NewServer(deps, redisClient.GetClient())

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			appLogger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down gracefully")
	stop()

	// Give server 30 seconds to shutdown gracefully
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLogger.Info("Server shutdown completed")
}
