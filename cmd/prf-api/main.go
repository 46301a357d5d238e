package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/nutratech/prf-api/api/swagger"
	"github.com/nutratech/prf-api/internal/handler"
	"github.com/nutratech/prf-api/internal/middleware"
	"github.com/nutratech/prf-api/internal/repository"
	"github.com/nutratech/prf-api/internal/service"
	"github.com/nutratech/prf-api/pkg/cache"
	"github.com/nutratech/prf-api/pkg/config"
	"github.com/nutratech/prf-api/pkg/database"
	"github.com/nutratech/prf-api/pkg/export"
	"github.com/nutratech/prf-api/pkg/logger"
	"github.com/nutratech/prf-api/pkg/mailer"
	corsmiddleware "github.com/nutratech/prf-api/pkg/middleware/cors"
	reqidmiddleware "github.com/nutratech/prf-api/pkg/middleware/requestid"
)

// @title PRF API
// @version 1.0.0
// @description Purchase request form approval workflow
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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, approval chain caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	smtp := mailer.NewSMTP(cfg.SMTP)
	if err := smtp.Verify(); err != nil {
		logr.Warn("smtp handshake failed, notifications will be retried per send", zap.Error(err))
	}

	prfRepo := repository.NewPrfRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	stockCheckRepo := repository.NewStockCheckRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metricsService := service.NewMetricsService()
	notificationService := service.NewNotificationService(smtp, logr,
		service.WithMailMetrics(metricsService),
		service.WithSendTimeout(cfg.SMTP.SendTimeout))
	assignmentService := service.NewAssignmentService(assignmentRepo, directoryRepo, cacheRepo, cfg.Approvals.ChainCacheTTL, logr)
	approvalService := service.NewApprovalService(prfRepo, assignmentService, notificationService,
		cfg.Approvals.CompanyName, cfg.SMTP.AppURL, logr)
	cancellationService := service.NewCancellationService(prfRepo, cfg.Approvals.Timezone, cfg.Approvals.CancelLimit, logr)
	pdfExporter := export.NewPDFExporter(cfg.Approvals.CompanyName)
	prfService := service.NewPrfService(prfRepo, assignmentService, notificationService, pdfExporter,
		validator.New(), cfg.Approvals.CompanyName, cfg.SMTP.AppURL, logr)
	stockCheckService := service.NewStockCheckService(stockCheckRepo, prfRepo, notificationService,
		cfg.Approvals.StockCheckerNames, cfg.Approvals.CompanyName, cfg.SMTP.AppURL, logr)
	authService := service.NewAuthService(userRepo, cfg.JWT, logr)

	authHandler := handler.NewAuthHandler(authService)
	prfHandler := handler.NewPrfHandler(prfService, userRepo)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	cancellationHandler := handler.NewCancellationHandler(cancellationService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	stockCheckHandler := handler.NewStockCheckHandler(stockCheckService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	protected.POST("/prfs", prfHandler.Submit)
	protected.GET("/prfs", prfHandler.List)
	protected.GET("/prfs/mine", prfHandler.ListMine)
	protected.GET("/prfs/:id", prfHandler.Get)
	protected.GET("/prfs/:id/export", prfHandler.Export)
	protected.POST("/prfs/:id/action", approvalHandler.Action)
	protected.POST("/prfs/:id/reject", approvalHandler.Reject)
	protected.POST("/prfs/:id/cancel", cancellationHandler.Cancel)
	protected.POST("/prfs/:id/uncancel", cancellationHandler.Uncancel)
	protected.PUT("/prfs/:id/items", cancellationHandler.UpdateItems)
	protected.GET("/prfs/:id/stock-checks", stockCheckHandler.History)
	protected.PATCH("/prf-items/:id/received", prfHandler.ReceiveItem)
	protected.PATCH("/prf-items/:id/remarks", prfHandler.UpdateRemarks)
	protected.GET("/approvals", assignmentHandler.List)
	protected.POST("/approvals/populate", assignmentHandler.Populate)
	protected.GET("/approvals/:userId", assignmentHandler.Get)
	protected.GET("/stock-checkers", stockCheckHandler.Roster)
	protected.POST("/stock-checks/verify", stockCheckHandler.Verify)
	protected.POST("/stock-checks/reject", stockCheckHandler.Reject)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
