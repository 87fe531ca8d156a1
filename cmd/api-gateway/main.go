package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/salemsharhan/university-management-system-sub002/api/swagger"
	"github.com/salemsharhan/university-management-system-sub002/internal/handler"
	"github.com/salemsharhan/university-management-system-sub002/internal/middleware"
	"github.com/salemsharhan/university-management-system-sub002/internal/models"
	"github.com/salemsharhan/university-management-system-sub002/internal/repository"
	"github.com/salemsharhan/university-management-system-sub002/internal/service"
	"github.com/salemsharhan/university-management-system-sub002/pkg/cache"
	"github.com/salemsharhan/university-management-system-sub002/pkg/config"
	"github.com/salemsharhan/university-management-system-sub002/pkg/database"
	"github.com/salemsharhan/university-management-system-sub002/pkg/logger"
	corsmiddleware "github.com/salemsharhan/university-management-system-sub002/pkg/middleware/cors"
	reqidmiddleware "github.com/salemsharhan/university-management-system-sub002/pkg/middleware/requestid"
)

// @title University Administration API
// @version 1.0.0
// @description Academic scheduling, examination conflict detection and grade computation services
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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.ConflictCacheTTL, logr, cfg.Reports.CacheEnabled)
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Reports.ConflictCacheTTL, logr, false)
	}

	termRepo := repository.NewTermRepository(db)
	templateRepo := repository.NewScheduleTemplateRepository(db)
	sessionRepo := repository.NewClassSessionRepository(db)
	examRepo := repository.NewExamSlotRepository(db)
	gradeConfigRepo := repository.NewGradeConfigRepository(db)
	gradeRecordRepo := repository.NewGradeRecordRepository(db)
	userRepo := repository.NewUserRepository(db)

	termSvc := service.NewTermService(termRepo, validate, logr)
	templateSvc := service.NewScheduleTemplateService(templateRepo, validate, logr)
	sessionSvc := service.NewSessionService(templateRepo, termRepo, sessionRepo, metricsSvc, validate, logr)
	conflictSvc := service.NewConflictService(examRepo, cacheSvc, metricsSvc, logr, cfg.Reports.ConflictCacheTTL)
	examSvc := service.NewExamService(examRepo, conflictSvc, validate, logr)
	gradeConfigSvc := service.NewGradeConfigService(gradeConfigRepo, validate, logr)
	gradeSvc := service.NewGradeService(gradeConfigRepo, gradeRecordRepo, metricsSvc, validate, logr)
	gradeSvc.SetRoundDecimals(cfg.Grading.RoundDecimals)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "university-admin-api",
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Sessions:  sessionRepo,
		Conflicts: conflictSvc,
		Progress:  gradeRecordRepo,
		Metrics:   metricsSvc,
		Cache:     cacheSvc,
		Logger:    logr,
		Config:    service.DashboardServiceConfig{CacheTTL: cfg.Reports.ProgressCacheTTL},
	})
	exportSvc := service.NewExportService(conflictSvc, gradeRecordRepo, logr, nil, nil)

	termHandler := handler.NewTermHandler(termSvc)
	templateHandler := handler.NewScheduleTemplateHandler(templateSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	examHandler := handler.NewExamHandler(examSvc)
	conflictHandler := handler.NewConflictHandler(conflictSvc)
	gradeConfigHandler := handler.NewGradeConfigHandler(gradeConfigSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar)
	grading := middleware.RequireRoles(models.RoleAdmin, models.RoleRegistrar, models.RoleInstructor)

	terms := protected.Group("/terms")
	{
		terms.GET("", termHandler.List)
		terms.GET("/:id", termHandler.Get)
		terms.POST("", staff, termHandler.Create)
		terms.PUT("/:id", staff, termHandler.Update)
		terms.DELETE("/:id", staff, termHandler.Delete)
		terms.GET("/:id/conflicts", conflictHandler.Report)
		terms.GET("/:id/conflicts/summary", conflictHandler.Summary)
	}

	templates := protected.Group("/schedule-templates")
	{
		templates.GET("", templateHandler.List)
		templates.POST("", staff, templateHandler.Create)
		templates.PUT("/:id", staff, templateHandler.Update)
		templates.DELETE("/:id", staff, templateHandler.Delete)
		templates.POST("/:id/generate", staff, sessionHandler.Generate)
	}

	sessions := protected.Group("/sessions")
	{
		sessions.GET("", sessionHandler.List)
		sessions.PATCH("/:id/status", staff, sessionHandler.UpdateStatus)
	}

	exams := protected.Group("/exam-slots")
	{
		exams.GET("", examHandler.List)
		exams.POST("", staff, examHandler.Create)
		exams.PUT("/:id", staff, examHandler.Update)
		exams.DELETE("/:id", staff, examHandler.Delete)
	}

	subjects := protected.Group("/subjects")
	{
		subjects.GET("/:subjectId/grade-config", gradeConfigHandler.List)
		subjects.PUT("/:subjectId/grade-config", staff, gradeConfigHandler.Replace)
	}

	grades := protected.Group("/grade-records")
	{
		grades.GET("", gradeHandler.List)
		grades.PUT("/scores", grading, gradeHandler.UpsertScores)
		grades.POST("/:id/transition", grading, gradeHandler.Transition)
	}
	protected.POST("/classes/:classId/recalculate", grading, gradeHandler.Recalculate)

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/terms/:termId", dashboardHandler.TermOverview)
		dashboard.GET("/classes/:classId/grading-progress", dashboardHandler.GradingProgress)
		dashboard.GET("/system", middleware.RequireRoles(models.RoleAdmin), dashboardHandler.SystemMetrics)
	}

	exports := protected.Group("/exports")
	{
		exports.GET("/conflicts/:termId", staff, exportHandler.ConflictReport)
		exports.GET("/grades/:classId", grading, exportHandler.GradeSheet)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
