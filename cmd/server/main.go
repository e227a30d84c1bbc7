package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appfiling "github.com/neximp/backend/internal/application/filing"
	"github.com/neximp/backend/internal/domain/receipt"
	"github.com/neximp/backend/internal/infrastructure/cache"
	"github.com/neximp/backend/internal/infrastructure/config"
	"github.com/neximp/backend/internal/infrastructure/delivery"
	"github.com/neximp/backend/internal/infrastructure/logger"
	"github.com/neximp/backend/internal/infrastructure/persistence"
	"github.com/neximp/backend/internal/interfaces/http/handler"
	"github.com/neximp/backend/internal/interfaces/http/middleware"
	"github.com/neximp/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting customs filing backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := persistence.Migrate(db.DB); err != nil {
		log.Fatal("Failed to run schema migration", zap.Error(err))
	}

	// Receipt rendering and delivery wiring
	filingRepo := persistence.NewGormFilingRepository(db.DB)
	renderer := receipt.NewRenderer(receipt.PaymentLink{
		PayeeAddress: cfg.Receipt.PayeeAddress,
		PayeeName:    cfg.Receipt.PayeeName,
		Currency:     cfg.Receipt.Currency,
	})
	registry := delivery.NewDispatcherRegistry(
		delivery.NewEmailDispatcher(delivery.NewMailAPIAdapter(&cfg.Mail)),
		delivery.NewSMSDispatcher(delivery.NewSMSGatewayAdapter(&cfg.SMS)),
		delivery.NewDocumentDispatcher(delivery.NewQRCodeEncoder()),
	)

	filingService := appfiling.NewService(filingRepo, renderer, registry)

	// Background notification worker with idempotent dedupe
	var worker *delivery.NotificationWorker
	if cfg.Delivery.WorkerEnabled {
		dedupeStore, err := cache.NewIdempotencyStore(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
		defer func() {
			_ = dedupeStore.Close()
		}()

		worker = delivery.NewNotificationWorker(filingRepo, renderer, registry, dedupeStore, cfg.Delivery, log)
		if err := worker.Start(context.Background()); err != nil {
			log.Fatal("Failed to start notification worker", zap.Error(err))
		}
		filingService.SetNotifier(worker)
		log.Info("Notification worker started",
			zap.Int("workers", cfg.Delivery.Workers),
			zap.String("channel", cfg.Delivery.NotifyChannel),
		)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging, CORS
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Liveness endpoint outside API versioning
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, version)
	systemHandler.RegisterSystemRoutes(engine)

	// Versioned API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewFilingHandler(filingService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if worker != nil {
		if err := worker.Stop(ctx); err != nil {
			log.Warn("Notification worker did not drain in time", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
