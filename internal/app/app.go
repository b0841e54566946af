package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/cargotrack/server/internal/domain/notification"
	"github.com/cargotrack/server/internal/domain/order"
	"github.com/cargotrack/server/internal/infra/config"
	"github.com/cargotrack/server/internal/infra/database"
	"github.com/cargotrack/server/internal/infra/events"
	"github.com/cargotrack/server/internal/utils/logger"
	"github.com/cargotrack/server/internal/utils/middleware"
)

// App represents the application.
type App struct {
	deps    *Dependencies
	router  *gin.Engine
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("init dependencies: %w", err)
	}

	app := &App{
		deps:    deps,
		cleanup: cleanup,
	}

	if err := app.migrate(); err != nil {
		cleanup()
		return nil, err
	}

	app.registerEventHandlers()
	app.router = app.setupRouter()
	app.registerRoutes()

	return app, nil
}

// migrate brings the schema up to date.
func (a *App) migrate() error {
	db := a.deps.DB
	switch {
	case a.deps.Config.Database.Migrate:
		version, err := database.Migrate(a.deps.Config.Database.DSN())
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		a.deps.ZapLogger.Info("database migrated", zap.Uint("version", version))
	case a.deps.Config.Database.AutoMigrate:
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
	}
	return nil
}

// registerEventHandlers registers all domain event handlers.
func (a *App) registerEventHandlers() {
	bus := a.deps.EventBus

	// Notification queues are written before the request returns
	bus.Register(notification.NewDispatchHandler(a.deps.Domain.Dispatcher))

	if a.deps.MessagingHandler != nil {
		bus.Register(a.deps.MessagingHandler)
	} else {
		a.deps.ZapLogger.Info("messaging bridge disabled")
	}

	if a.deps.MessagePort != nil {
		bus.Register(events.NewForwarder(a.deps.MessagePort, order.EventStateChanged))
	}
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	cfg := a.deps.Config

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	} else if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	log := a.deps.Logger

	// Apply global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(a.deps.Metrics))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSOrigins...)))

	// Health check endpoint
	r.GET("/health", a.health)

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.deps.Registry, promhttp.HandlerOpts{})))

	// Swagger documentation endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	return r
}

// registerRoutes registers API routes.
func (a *App) registerRoutes() {
	cfg := a.deps.Config
	api := a.router.Group("/api")

	if cfg.RateLimit.Enabled && a.deps.RateLimiter != nil {
		api.Use(middleware.RateLimit(a.deps.RateLimiter, middleware.RateLimitConfig{
			Limit:   cfg.RateLimit.GlobalLimit,
			Window:  cfg.RateLimit.GlobalWindow,
			KeyFunc: middleware.IPRouteKey,
			OnError: func(c *gin.Context, err error) {
				a.deps.Logger.WarnContext(c.Request.Context(), "rate limiter unavailable", logger.Err(err))
			},
		}))
	}
	if a.deps.Redis != nil {
		api.Use(middleware.Idempotency(a.deps.Redis, middleware.IdempotencyConfig{
			TTL: cfg.RateLimit.IdempotencyTTL,
		}))
	}

	a.deps.OrderHandler.RegisterRoutes(api)
	a.deps.ClientHandler.RegisterRoutes(api)
	a.deps.NotificationHandler.RegisterRoutes(api)
}

func (a *App) health(c *gin.Context) {
	sqlDB, err := a.deps.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop waits for in-flight messaging deliveries and releases resources.
func (a *App) Stop(ctx context.Context) {
	if h := a.deps.MessagingHandler; h != nil {
		done := make(chan struct{})
		go func() {
			h.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			a.deps.ZapLogger.Warn("messaging deliveries still pending at shutdown")
		}
	}

	if a.cleanup != nil {
		a.cleanup()
	}
}
