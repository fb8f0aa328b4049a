package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/juanraniqueo21/proyecto-buses/api/swagger"
	"github.com/juanraniqueo21/proyecto-buses/internal/handler"
	appMiddleware "github.com/juanraniqueo21/proyecto-buses/internal/middleware"
	"github.com/juanraniqueo21/proyecto-buses/internal/repository"
	"github.com/juanraniqueo21/proyecto-buses/internal/service"
	"github.com/juanraniqueo21/proyecto-buses/pkg/cache"
	"github.com/juanraniqueo21/proyecto-buses/pkg/config"
	"github.com/juanraniqueo21/proyecto-buses/pkg/database"
	"github.com/juanraniqueo21/proyecto-buses/pkg/logger"
	corsmiddleware "github.com/juanraniqueo21/proyecto-buses/pkg/middleware/cors"
	reqidmiddleware "github.com/juanraniqueo21/proyecto-buses/pkg/middleware/requestid"
)

// @title API Flota de Buses
// @version 1.0.0
// @description REST backend for bus fleet management
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repository.EnsureSchema(startupCtx, db); err != nil {
		logr.Sugar().Fatalw("failed to prepare schema", "error", err)
	}

	refRepo := repository.NewReferenceRepository(db)
	if cfg.Fleet.SeedReferenceData {
		if err := refRepo.Seed(startupCtx); err != nil {
			logr.Sugar().Fatalw("failed to seed reference data", "error", err)
		}
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Fleet.StatsCacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			// Caching is an optimization; the API stays up without it.
			logr.Warn("redis unavailable, statistics caching disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Fleet.StatsCacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()
	busRepo := repository.NewBusRepository(db)
	busSvc := service.NewBusService(busRepo, refRepo, cacheSvc, validate, logr, cfg.Fleet.MaintenanceInterval)
	refSvc := service.NewReferenceService(refRepo, logr)
	exportSvc := service.NewExportService(busRepo, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(appMiddleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Buses:     handler.NewBusHandler(busSvc, exportSvc),
		Reference: handler.NewReferenceHandler(refSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
