package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/comparekart/catalog-service/config"
	_ "github.com/comparekart/catalog-service/docs"
	"github.com/comparekart/catalog-service/internal/catalog"
	"github.com/comparekart/catalog-service/internal/database"
	"github.com/comparekart/catalog-service/internal/handlers"
	"github.com/comparekart/catalog-service/internal/middleware"
	"github.com/comparekart/catalog-service/internal/sweepers"
	"github.com/comparekart/catalog-service/internal/taskqueue"
	"github.com/comparekart/catalog-service/internal/telemetry"
	"github.com/comparekart/catalog-service/internal/workers"
)

// @title Catalog Service API
// @version 1.0
// @description Affiliate price-comparison catalog: product search, featured lists, and the comparison document API.
// @BasePath /
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)
	log.Logger = *logger

	logger.Info().Msg("Starting catalog service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	if err := database.Migrate(ctx, database.Pool()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply schema")
	}

	queue := taskqueue.New(database.Pool())
	repo := catalog.NewRepository(database.Pool())

	worker := workers.New(queue, workers.Config{
		TaskTypes: []string{
			string(taskqueue.TaskTypeCatalogSync),
			string(taskqueue.TaskTypeReindex),
			string(taskqueue.TaskTypeCleanup),
		},
		MaxTasks:  5,
		PollDelay: 5 * time.Second,
	})
	worker.RegisterHandler(taskqueue.TaskTypeCatalogSync, workers.NewSyncHandler(repo))
	worker.RegisterHandler(taskqueue.TaskTypeReindex, workers.NewReindexHandler(repo))
	worker.RegisterHandler(taskqueue.TaskTypeCleanup, workers.NewCleanupHandler(queue, 7))
	worker.Start(ctx)

	taskSweeper := sweepers.NewTaskQueueSweeper(database.Pool(), logger, 5*time.Minute, 15*time.Minute)
	go taskSweeper.Start(ctx)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(middleware.RateLimit(cfg.RateLimit))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/products", handlers.SearchProducts)
	router.GET("/products/search", handlers.SearchProducts)
	router.GET("/products/latest-popular", handlers.LatestPopular)
	router.GET("/products/hot-deals", handlers.HotDeals)
	router.GET("/products/best-selling", handlers.BestSelling)
	router.GET("/products/:id", handlers.GetProduct)
	// legacy alias kept for stored affiliate links
	router.GET("/product/:id", handlers.GetProduct)
	router.GET("/categories", handlers.Categories)
	router.GET("/brands", handlers.Brands)

	router.POST("/compare", handlers.Compare)
	router.POST("/compare/removed", handlers.RemoveCompared)
	router.POST("/contact", handlers.SubmitContact)
	// legacy form action path
	router.POST("/contact-us", handlers.SubmitContact)

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuth())
	{
		internal.GET("/health", handlers.HealthCheck)
		internal.POST("/sync/:source", handlers.SyncSource)
		internal.GET("/sync/tasks/:id", handlers.SyncTaskStatus)
		internal.POST("/reindex", handlers.Reindex)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	taskSweeper.Stop()
	worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "catalog-service").Logger()
	return &logger
}

func requestLogger(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	}
}
