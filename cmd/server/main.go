package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	customerapp "github.com/datasync/backend/internal/application/customer"
	integrationapp "github.com/datasync/backend/internal/application/integration"
	syncapp "github.com/datasync/backend/internal/application/sync"
	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/integration"
	"github.com/datasync/backend/internal/domain/shared"
	"github.com/datasync/backend/internal/infrastructure/cache"
	"github.com/datasync/backend/internal/infrastructure/config"
	"github.com/datasync/backend/internal/infrastructure/event"
	"github.com/datasync/backend/internal/infrastructure/logger"
	"github.com/datasync/backend/internal/infrastructure/persistence"
	"github.com/datasync/backend/internal/infrastructure/source"
	"github.com/datasync/backend/internal/infrastructure/task"
	"github.com/datasync/backend/internal/interfaces/http/handler"
	"github.com/datasync/backend/internal/interfaces/http/middleware"
	"github.com/datasync/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting DataSync Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Initialize caches. Redis failures degrade to process-local caches so
	// the service still starts without a cache backend.
	var (
		customerCache     shared.Cache[customer.Customer]
		customerListCache shared.Cache[[]customer.Customer]
		statusCache       shared.Cache[integration.JobStatus]
	)
	redisClient, err := cache.Connect(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory caches", zap.Error(err))
		customerCache = cache.NewMemory[customer.Customer]()
		customerListCache = cache.NewMemory[[]customer.Customer]()
		statusCache = cache.NewMemory[integration.JobStatus]()
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		customerCache = cache.NewRedis[customer.Customer](redisClient)
		customerListCache = cache.NewRedis[[]customer.Customer](redisClient)
		statusCache = cache.NewRedis[integration.JobStatus](redisClient)
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	// Initialize change bus
	changeBus := event.NewInMemoryChangeBus(log)
	if err := changeBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start change bus", zap.Error(err))
	}
	defer func() {
		if err := changeBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping change bus", zap.Error(err))
		}
	}()

	// Initialize repositories
	customerRepo := persistence.NewCustomerRepository(db.DB)
	jobRepo := persistence.NewIntegrationJobRepository(db.DB)

	// Initialize application services
	customerService := customerapp.NewService(customerRepo, customerCache, customerListCache, changeBus, log)

	// Register change handlers
	customerChangeHandler := syncapp.NewCustomerChangeHandler(customerCache, log)
	changeBus.Subscribe(customerChangeHandler)
	log.Info("Change handlers registered",
		zap.Strings("customer_handler_entities", customerChangeHandler.EntityTypes()),
	)

	// Initialize the integration worker pool and service
	workerPool, err := task.NewPool(cfg.Integration.Workers, log)
	if err != nil {
		log.Fatal("Failed to create worker pool", zap.Error(err))
	}
	defer workerPool.Release()

	integrationService := integrationapp.NewService(
		jobRepo,
		statusCache,
		source.NewFactory(log),
		integrationapp.NewEntityReconciler(customerService),
		workerPool,
		log,
	)
	log.Info("Integration pipeline ready", zap.Int("workers", cfg.Integration.Workers))

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	integrationHandler := handler.NewIntegrationHandler(integrationService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(customerHandler).
		Register(integrationHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
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
