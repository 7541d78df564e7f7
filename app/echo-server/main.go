package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screenBreak/app/echo-server/router"
	"screenBreak/business/clustering"
	"screenBreak/business/screentime"
	"screenBreak/internal/middleware"
	"screenBreak/internal/repository/csvfile"
	psqlRepo "screenBreak/internal/repository/postgres"
	"screenBreak/internal/rest"
	"screenBreak/pkg/config"
	"screenBreak/pkg/database"
	"screenBreak/pkg/logger"
	"screenBreak/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "reference_source", cfg.Reference.Source)

	metrics.Init()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer bootCancel()

	// Init repo
	var (
		refRepo  screentime.ReferenceRepository
		recoRepo screentime.RecommendationRepository
	)
	switch cfg.Reference.Source {
	case config.ReferenceSourcePostgres:
		db, err := database.InitPostgres(bootCtx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				logger.Error("Failed to close database", "error", err)
			}
		}()
		logger.Info("Database connected successfully")
		refRepo = psqlRepo.NewReferenceRepository(db)
		recoRepo = psqlRepo.NewRecommendationRepository(db)
	default:
		refRepo = csvfile.NewReferenceRepository(cfg.Reference.CSVPath)
	}

	ref, err := screentime.LoadReference(bootCtx, refRepo)
	if err != nil {
		logger.Fatal("Failed to load reference dataset", "error", err)
	}
	metrics.ReferenceRows.Set(float64(ref.Len()))

	// Init service
	table := screentime.LoadRecommendationTable(bootCtx, recoRepo)
	screenTimeService, err := screentime.NewScreenTimeService(ref, table, screentime.Config{
		Clustering: clustering.Config{
			K:       cfg.Cluster.K,
			Seed:    cfg.Cluster.Seed,
			NInit:   cfg.Cluster.NInit,
			MaxIter: cfg.Cluster.MaxIter,
		},
		Mode:            cfg.Cluster.Mode,
		CanonicalLabels: cfg.Cluster.CanonicalLabels,
		CacheSize:       cfg.Cache.Size,
		CacheTTL:        cfg.Cache.TTL,
	})
	if err != nil {
		logger.Fatal("Failed to init screen time service", "error", err)
	}

	// Init handler
	screenTimeHandler := rest.NewScreenTimeHandler(screenTimeService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  cfg.Server.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
	}))

	// Setup routes
	router.SetupOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetupScreenTimeRoutes(api, screenTimeHandler)

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

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
