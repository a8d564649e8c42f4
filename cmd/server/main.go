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

	billingapp "github.com/homelease/backend/internal/application/billing"
	leasingapp "github.com/homelease/backend/internal/application/leasing"
	"github.com/homelease/backend/internal/domain/billing"
	"github.com/homelease/backend/internal/infrastructure/auth"
	"github.com/homelease/backend/internal/infrastructure/config"
	"github.com/homelease/backend/internal/infrastructure/event"
	"github.com/homelease/backend/internal/infrastructure/logger"
	"github.com/homelease/backend/internal/infrastructure/persistence"
	"github.com/homelease/backend/internal/infrastructure/scheduler"
	"github.com/homelease/backend/internal/interfaces/http/handler"
	"github.com/homelease/backend/internal/interfaces/http/middleware"
	"github.com/homelease/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting HomeLease Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	apartmentRepo := persistence.NewGormApartmentRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	notificationHandler := billingapp.NewBillingNotificationHandler(
		billingapp.NewLogNotifier(log), log,
	)
	eventBus.Subscribe(notificationHandler, notificationHandler.EventTypes()...)
	log.Info("Event handlers registered",
		zap.Strings("notification_events", notificationHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	propertyService := leasingapp.NewPropertyService(apartmentRepo, roomRepo, tenantRepo)
	leaseService := leasingapp.NewLeaseService(leaseRepo, roomRepo, tenantRepo, eventBus)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, eventBus)
	billingRunService := billingapp.NewBillingRunService(
		leaseRepo, invoiceRepo, eventBus, log,
		billingapp.WithWorkerCount(cfg.Billing.WorkerCount),
		billingapp.WithBuilderPolicy(billing.BuilderPolicy{
			GracePeriodDays: cfg.Billing.GracePeriodDays,
		}),
	)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Recurring billing schedule
	billingCron := scheduler.NewBillingCron(scheduler.Config{
		Enabled:      cfg.Scheduler.Enabled,
		CronSchedule: cfg.Scheduler.CronSchedule,
		RunTimeout:   cfg.Scheduler.RunTimeout,
	}, billingRunService, log)
	if err := billingCron.Start(); err != nil {
		log.Fatal("Failed to start billing scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := billingCron.Stop(stopCtx); err != nil {
			log.Error("Error stopping billing scheduler", zap.Error(err))
		}
	}()

	// HTTP handlers
	propertyHandler := handler.NewPropertyHandler(propertyService)
	leaseHandler := handler.NewLeaseHandler(leaseService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	billingHandler := handler.NewBillingHandler(billingRunService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Health check endpoint (outside API versioning and authentication)
	engine.GET("/health", healthHandler(db))

	engine.Use(middleware.JWTAuthWithConfig(middleware.JWTConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(
		propertyHandler,
		leaseHandler,
		invoiceHandler,
		billingHandler,
		systemHandler,
	)
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database liveness
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
