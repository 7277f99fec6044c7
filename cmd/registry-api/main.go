package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dis-school/registry-api/api/swagger"
	"github.com/dis-school/registry-api/internal/handler"
	internalmiddleware "github.com/dis-school/registry-api/internal/middleware"
	"github.com/dis-school/registry-api/internal/repository"
	"github.com/dis-school/registry-api/internal/service"
	"github.com/dis-school/registry-api/pkg/cache"
	"github.com/dis-school/registry-api/pkg/config"
	"github.com/dis-school/registry-api/pkg/database"
	"github.com/dis-school/registry-api/pkg/logger"
	corsmiddleware "github.com/dis-school/registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dis-school/registry-api/pkg/middleware/requestid"
	"github.com/dis-school/registry-api/pkg/storage"
)

// @title DIS Registry API
// @version 1.0.0
// @description Student registration and administration backend
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
	sugar := logr.Sugar()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, logr); err != nil {
		sugar.Fatalw("failed to apply migrations", "error", err)
	}

	uploads, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		sugar.Fatalw("failed to prepare upload storage", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	// Redis is optional. Without it the dashboard summary is computed per
	// request instead of served from cache.
	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		sugar.Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr)
		defer cacheRepo.Close() //nolint:errcheck
	}

	studentRepo := repository.NewStudentRepository(db)
	admissionRepo := repository.NewAdmissionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	admissionSvc := service.NewAdmissionService(admissionRepo, cfg.Admission.Prefix)
	auditSvc := service.NewAuditService(auditRepo, logr, service.AuditServiceConfig{
		Workers:    cfg.Audit.Workers,
		MaxRetries: cfg.Audit.MaxRetries,
		RetryDelay: cfg.Audit.RetryDelay,
	})
	auditSvc.Start(context.Background())
	defer auditSvc.Stop()

	dashboardSvc := service.NewDashboardService(studentRepo, admissionSvc, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	exportSvc := service.NewExportService(studentRepo)
	studentSvc := service.NewStudentService(
		studentRepo,
		admissionSvc,
		uploads,
		auditSvc,
		dashboardSvc,
		metricsSvc,
		validator.New(),
		logr,
		service.StudentServiceConfig{
			MaxFileSize:  cfg.Uploads.MaxFileSizeBytes,
			AllowedMIMEs: cfg.Uploads.AllowedMIMEs,
		},
	)

	studentHandler := handler.NewStudentHandler(studentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Static(cfg.Uploads.PublicPath, uploads.Dir())

	students := api.Group("/students")
	students.POST("/register", studentHandler.Register)
	students.GET("", studentHandler.List)
	students.GET("/recyclebin", studentHandler.RecycleBin)
	students.GET("/export", exportHandler.Roster)
	students.GET("/:id", studentHandler.Get)
	students.PUT("/recycle/:id", studentHandler.Recycle)
	students.PUT("/restore/:id", studentHandler.Restore)
	students.PUT("/:id", studentHandler.Update)
	students.DELETE("/permanent/:id", studentHandler.PermanentDelete)

	api.GET("/dashboard/summary", dashboardHandler.Summary)

	addr := fmt.Sprintf(":%d", cfg.Port)
	sugar.Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		sugar.Fatalw("server failed", "error", err)
	}
}
