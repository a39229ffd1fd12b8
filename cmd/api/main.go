package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vhoward/training-plan-api/api/swagger"
	"github.com/vhoward/training-plan-api/internal/handler"
	"github.com/vhoward/training-plan-api/internal/middleware"
	"github.com/vhoward/training-plan-api/internal/recurrence"
	"github.com/vhoward/training-plan-api/internal/repository"
	"github.com/vhoward/training-plan-api/internal/service"
	"github.com/vhoward/training-plan-api/pkg/cache"
	"github.com/vhoward/training-plan-api/pkg/config"
	"github.com/vhoward/training-plan-api/pkg/database"
	"github.com/vhoward/training-plan-api/pkg/jobs"
	"github.com/vhoward/training-plan-api/pkg/logger"
	corsmiddleware "github.com/vhoward/training-plan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/vhoward/training-plan-api/pkg/middleware/requestid"
	"github.com/vhoward/training-plan-api/pkg/storage"
)

// @title Training Plan API
// @version 0.1.0
// @description Training schedule construction and workload validation
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var summaryCache service.SummaryCache
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Warn("redis unavailable, summary caching disabled", zap.Error(err))
	} else {
		summaryCache = redisClient
		defer redisClient.Close()
	}

	rules, err := recurrence.LoadFileOrDefault(cfg.Planner.RulesFile)
	if err != nil {
		logr.Sugar().Fatalw("failed to load recurrence rules", "error", err, "file", cfg.Planner.RulesFile)
	}

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	subjectRepo := repository.NewSubjectRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	userRepo := repository.NewUserRepository(db)

	planner := service.NewPlannerService(subjectRepo, rules, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	subjectSvc := service.NewSubjectService(subjectRepo, nil, logr)
	metricsSvc := service.NewMetricsService()
	scheduleSvc := service.NewScheduleService(scheduleRepo, subjectRepo, planner,
		summaryCache, cfg.Planner.SummaryCacheTTL, metricsSvc, nil, logr)
	exportSvc := service.NewExportService(scheduleRepo, store, signer, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	}, metricsSvc, logr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	exportSvc.Start(ctx)
	defer exportSvc.Stop()

	authHandler := handler.NewAuthHandler(authSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/exports/:file", exportHandler.Download)
	api.GET("/subjects", subjectHandler.List)
	api.GET("/subjects/:id", subjectHandler.Get)
	api.GET("/schedules", scheduleHandler.List)
	api.GET("/schedules/:id", scheduleHandler.Get)
	api.GET("/schedules/:id/subjects/:subjectId/available-lessons", scheduleHandler.AvailableLessons)
	api.GET("/schedules/:id/weeks/:week/validation", scheduleHandler.ValidateWeek)
	api.GET("/schedules/:id/weeks/:week/days/:day/suggestions", scheduleHandler.Suggestions)

	protected := api.Group("", middleware.JWT(authSvc))
	protected.POST("/subjects", subjectHandler.Create)
	protected.PUT("/subjects/:id", subjectHandler.Update)
	protected.DELETE("/subjects/:id", subjectHandler.Delete)
	protected.POST("/subjects/:id/lessons", subjectHandler.AddLesson)
	protected.PUT("/subjects/:id/lessons/:lessonId", subjectHandler.UpdateLesson)
	protected.DELETE("/subjects/:id/lessons/:lessonId", subjectHandler.RemoveLesson)

	protected.POST("/schedules", scheduleHandler.Create)
	protected.DELETE("/schedules/:id", scheduleHandler.Delete)
	protected.PUT("/schedules/:id/weeks/:week/days/:day/subjects", scheduleHandler.SetDaySubjects)
	protected.PUT("/schedules/:id/weeks/:week/days/:day/subjects/:subjectId/time", scheduleHandler.SetSubjectTime)
	protected.PUT("/schedules/:id/weeks/:week/days/:day/subjects/:subjectId/lesson", scheduleHandler.SetSubjectLesson)
	protected.POST("/schedules/:id/weeks/:week/copy", scheduleHandler.CopyWeek)
	protected.POST("/schedules/:id/weeks/:week/materialize", scheduleHandler.Materialize)
	protected.POST("/schedules/:id/lessons", scheduleHandler.AddLesson)
	protected.POST("/schedules/:id/export", exportHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
