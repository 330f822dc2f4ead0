package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tutorlane/tutor-dash-api/api/swagger"
	"github.com/tutorlane/tutor-dash-api/internal/handler"
	"github.com/tutorlane/tutor-dash-api/internal/middleware"
	"github.com/tutorlane/tutor-dash-api/internal/repository"
	"github.com/tutorlane/tutor-dash-api/internal/service"
	"github.com/tutorlane/tutor-dash-api/internal/upstream"
	"github.com/tutorlane/tutor-dash-api/pkg/cache"
	"github.com/tutorlane/tutor-dash-api/pkg/config"
	"github.com/tutorlane/tutor-dash-api/pkg/jobs"
	"github.com/tutorlane/tutor-dash-api/pkg/logger"
	corsmiddleware "github.com/tutorlane/tutor-dash-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorlane/tutor-dash-api/pkg/middleware/requestid"
)

// @title Tutor Dashboard API
// @version 0.1.0
// @description Lesson classification, filtering and claim service
// @BasePath /
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			repo := repository.NewCacheRepository(redisClient, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	lessonClient := upstream.NewClient(cfg.Upstream, logr, metricsSvc)
	store := service.NewLessonStore(service.LessonStoreParams{
		Source: lessonClient,
		Cache:  cacheSvc,
		Logger: logr,
	})
	authSvc := service.NewAuthService(cfg.JWT)

	var exporter *service.ExportService
	if cfg.Export.Enabled {
		exporter = service.NewExportService()
	}

	lessonHandler := handler.NewLessonHandler(store, exporter)
	dashboardHandler := handler.NewDashboardHandler(store)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		api.GET("/lessons", lessonHandler.List)
		api.POST("/lessons/refresh", lessonHandler.Refresh)
		api.POST("/lessons/:id/claim", lessonHandler.Claim)
		api.GET("/lessons/export", lessonHandler.Export)

		api.GET("/dashboard", dashboardHandler.Buckets)
		api.GET("/dashboard/months", dashboardHandler.Months)
		api.PUT("/dashboard/filter", dashboardHandler.SetFilter)
		api.DELETE("/dashboard/filter", dashboardHandler.ClearFilter)
	}

	ctx := context.Background()
	if err := store.FetchAll(ctx); err != nil {
		logr.Sugar().Warnw("initial lesson fetch failed, starting with empty collection", "error", err)
	}

	if cfg.Refresh.Enabled {
		refresher := jobs.NewRefresher("lesson-refresh", cfg.Refresh.Interval, store.FetchAll, logr)
		refresher.Start(ctx)
		defer refresher.Stop()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
