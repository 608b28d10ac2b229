package main

import (
	"context"
	"dynamicPricing/app/pricing-server/router"
	"dynamicPricing/business/competitor"
	"dynamicPricing/business/correlator"
	"dynamicPricing/business/demand"
	"dynamicPricing/business/inventory"
	"dynamicPricing/business/pricing"
	productService "dynamicPricing/business/product"
	"dynamicPricing/business/supervisor"
	"dynamicPricing/domain"
	"dynamicPricing/internal/middleware"
	"dynamicPricing/internal/repository/memory"
	"dynamicPricing/internal/repository/notification"
	psqlRepo "dynamicPricing/internal/repository/postgres"
	redisBus "dynamicPricing/internal/repository/redis"
	"dynamicPricing/internal/rest"
	"dynamicPricing/pkg/config"
	"dynamicPricing/pkg/database"
	redisDB "dynamicPricing/pkg/database/redis"
	"dynamicPricing/pkg/logger"
	"dynamicPricing/pkg/metrics"
	"dynamicPricing/pkg/utils"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SignalBus is implemented by both bus drivers; BUS_DRIVER picks one.
type SignalBus interface {
	Publish(ctx context.Context, topic string, env domain.SignalEnvelope) error
	StartForwarder(ctx context.Context, onMsg func(topic string, env domain.SignalEnvelope), topics ...string) error
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	defer logger.Sync()
	logger.Info("Starting Dynamic Pricing", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Init signal bus
	var bus SignalBus
	if cfg.Bus.Driver == "redis" {
		redisClient, err := redisDB.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		bus = redisBus.NewSignalBus(redisClient)
	} else {
		bus = memory.NewSignalBus()
	}

	logger.Info("Signal bus ready", "driver", cfg.Bus.Driver)

	// Init ops alert webhook
	alertWebhook := notification.NewWebhookRepository(
		notification.WebhookConfig{
			AlertWebhookURL:        cfg.Alert.AlertWebhookURL,
			AlertBasicAuthUsername: cfg.Alert.AlertBasicAuthUsername,
			AlertBasicAuthPassword: cfg.Alert.AlertBasicAuthPassword,
		},
	)

	// Init repo
	productRepo := psqlRepo.NewProductRepository(db)
	salesRepo := psqlRepo.NewSalesRepository(db)
	competitorRepo := psqlRepo.NewCompetitorRepository(db)
	inventoryRepo := psqlRepo.NewInventoryRepository(db)
	decisionRepo := psqlRepo.NewDecisionRepository(db)

	// Init service
	demandSvc := demand.NewDemandService(productRepo, salesRepo, inventoryRepo, decisionRepo)
	inventorySvc := inventory.NewInventoryService(productRepo, salesRepo, inventoryRepo, decisionRepo)
	competitorSvc := competitor.NewCompetitorService(productRepo, competitorRepo, decisionRepo)
	pricingSvc := pricing.NewPricingService(
		productRepo, competitorRepo, salesRepo, decisionRepo,
		competitorSvc, demandSvc, inventorySvc,
		bus, alertWebhook,
	)
	productSvc := productService.NewProductService(productRepo)

	cycleInterval := time.Duration(cfg.Pricing.CycleIntervalMinutes) * time.Minute
	supervisorSvc := supervisor.NewSupervisorService(
		productRepo, competitorRepo,
		demandSvc, inventorySvc, competitorSvc,
		bus, alertWebhook,
		cycleInterval,
	)

	// Correlator fuses the per-agent signals and fires decisions
	runCtx, stopAgents := context.WithCancel(context.Background())
	defer stopAgents()

	corr := correlator.NewCorrelator(pricingSvc, bus)
	if err := corr.Run(runCtx); err != nil {
		logger.Fatal("Failed to start correlator", "error", err)
	}

	if cfg.Pricing.SupervisorEnabled {
		go supervisorSvc.RunContinuous(runCtx)
	}

	// Init handler
	pricingHandler := rest.NewPricingHandler(pricingSvc, supervisorSvc)
	productHandler := rest.NewProductHandler(productSvc)
	healthHandler := rest.NewHealthHandler(cfg.App.Name, cfg.App.Version,
		func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		bus.Ping,
	)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupPricingRoutes(api, pricingHandler, middleware.ServiceAuth(), middleware.ServiceOnly())
	router.SetupProductRoutes(api, productHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Stop the agents and drain in-flight decisions
	stopAgents()
	corr.Wait()

	if err := bus.Close(); err != nil {
		logger.Error("Bus close error", "error", err)
	}

	logger.Info("Server stopped")
}
