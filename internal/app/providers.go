package app

import (
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/cargotrack/server/internal/domain"
	"github.com/cargotrack/server/internal/domain/notification"

	// Inbound adapters
	notificationhttp "github.com/cargotrack/server/internal/adapter/inbound/http/notification"
	orderhttp "github.com/cargotrack/server/internal/adapter/inbound/http/order"

	// Ports
	"github.com/cargotrack/server/internal/port/outbound"

	// Outbound adapters
	"github.com/cargotrack/server/internal/adapter/outbound/kafka"
	"github.com/cargotrack/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/cargotrack/server/internal/adapter/outbound/redis"
	"github.com/cargotrack/server/internal/adapter/outbound/whatsapp"

	// Infrastructure
	"github.com/cargotrack/server/internal/infra/cache"
	"github.com/cargotrack/server/internal/infra/config"
	"github.com/cargotrack/server/internal/infra/database"
	"github.com/cargotrack/server/internal/infra/events"
	"github.com/cargotrack/server/internal/infra/httpclient"

	// Utils
	"github.com/cargotrack/server/internal/utils/logger"
	"github.com/cargotrack/server/internal/utils/metrics"
)

const metricsNamespace = "cargotrack"

// ===== Infrastructure Providers =====

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideZapLogger,
	ProvideDatabase,
	ProvideRedisClient,
	ProvideHTTPClient,
	ProvideRateLimiter,
	ProvideRegistry,
	ProvideMetrics,
	ProvideEventBus,
	wire.Bind(new(events.Publisher), new(*events.Bus)),
)

// ProvideLogger creates a logger instance.
func ProvideLogger(cfg *config.Config) *logger.Logger {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideZapLogger creates a zap logger instance.
func ProvideZapLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, nil, err
	}
	return zapLog, func() { _ = zapLog.Sync() }, nil
}

// ProvideDatabase creates a database connection.
func ProvideDatabase(cfg *config.Config, zapLog *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := database.Close(db); err != nil {
			zapLog.Warn("failed to close database", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

// ProvideRedisClient creates a Redis client. It returns nil when Redis is
// not configured or unreachable.
func ProvideRedisClient(cfg *config.Config, zapLog *zap.Logger) (goredis.UniversalClient, func()) {
	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		zapLog.Warn("Redis connection failed, continuing without rate limiting", zap.Error(err))
		return nil, func() {}
	}
	return client, func() { _ = cache.Close(client) }
}

// ProvideHTTPClient creates a shared HTTP client with connection pooling.
func ProvideHTTPClient(cfg *config.Config) *http.Client {
	return httpclient.New(cfg.HTTPClient, httpclient.WithTimeout(cfg.Messaging.Timeout))
}

// ProvideRateLimiter creates a rate limiter.
func ProvideRateLimiter(redis goredis.UniversalClient) outbound.RateLimiterPort {
	if redis == nil {
		return nil
	}
	return redisadapter.NewRateLimiter(redis)
}

// ProvideRegistry creates the Prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a metrics instance.
func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(metricsNamespace, reg)
}

// ProvideEventBus creates the domain event bus. Handler failures are counted.
func ProvideEventBus(zapLog *zap.Logger, m *metrics.Metrics) *events.Bus {
	bus := events.NewBus(zapLog.Named("events"))
	bus.OnError(func(eventType string, _ error) {
		m.RecordEventError(eventType)
	})
	return bus
}

// ===== Outbound Adapter Providers =====

// AdapterSet provides outbound adapters.
var AdapterSet = wire.NewSet(
	ProvideOutboundPorts,
	ProvideMessagingBridge,
	ProvideMessagePort,
)

// ProvideOutboundPorts creates the postgres-backed outbound ports.
func ProvideOutboundPorts(db *gorm.DB) *domain.OutboundPorts {
	return &domain.OutboundPorts{
		Orders:        postgres.NewOrderAdapter(db),
		History:       postgres.NewHistoryAdapter(db),
		Notifications: postgres.NewNotificationAdapter(db),
		Clients:       postgres.NewClientAdapter(db),
	}
}

// ProvideMessagingBridge creates the WhatsApp bridge. It returns nil when no
// token is configured.
func ProvideMessagingBridge(cfg *config.Config, client *http.Client) outbound.MessagingBridgePort {
	if cfg.Messaging.Token == "" {
		return nil
	}
	return whatsapp.NewBridge(whatsapp.Config{
		URL:              cfg.Messaging.URL,
		Token:            cfg.Messaging.Token,
		FailureThreshold: cfg.Messaging.FailureThreshold,
		CircuitTimeout:   cfg.Messaging.CircuitTimeout,
	}, client)
}

// ProvideMessagePort creates the Kafka publisher. It returns nil when no
// brokers are configured.
func ProvideMessagePort(cfg *config.Config, zapLog *zap.Logger) (outbound.MessagePort, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, func() {}
	}
	publisher := kafka.NewPublisher(kafka.Config{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	})
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			zapLog.Warn("failed to close kafka publisher", zap.Error(err))
		}
	}
}

// ===== Domain Providers =====

// DomainSet provides domain services.
var DomainSet = wire.NewSet(
	ProvideDomainConfig,
	ProvideDomain,
	ProvideMessagingHandler,
)

// ProvideDomainConfig creates domain configuration.
func ProvideDomainConfig(cfg *config.Config, m *metrics.Metrics) *domain.Config {
	dc := domain.DefaultConfig()
	if cfg.Notifications.ReadyToPackWindow > 0 {
		dc.Rules.ReadyToPackWindow = cfg.Notifications.ReadyToPackWindow
	}
	dc.TransitionRecorder = m
	dc.NotificationRecorder = m
	return dc
}

// ProvideDomain creates all domain services.
func ProvideDomain(ports *domain.OutboundPorts, publisher events.Publisher, dc *domain.Config, zapLog *zap.Logger) *domain.Domain {
	return domain.NewDomain(ports, publisher, dc, zapLog)
}

// ProvideMessagingHandler creates the messaging event handler. It returns nil
// when no bridge is configured.
func ProvideMessagingHandler(
	cfg *config.Config,
	ports *domain.OutboundPorts,
	bridge outbound.MessagingBridgePort,
	m *metrics.Metrics,
	zapLog *zap.Logger,
) *notification.MessagingHandler {
	if bridge == nil {
		return nil
	}
	return notification.NewMessagingHandler(ports.Clients, bridge, cfg.Messaging.Timeout, m, zapLog.Named("messaging"))
}

// ===== HTTP Handler Providers =====

// HandlerSet provides inbound HTTP handlers.
var HandlerSet = wire.NewSet(
	ProvideOrderHandler,
	ProvideClientHandler,
	ProvideNotificationHandler,
)

// ProvideOrderHandler creates the order HTTP handler.
func ProvideOrderHandler(d *domain.Domain) *orderhttp.OrderHandler {
	return orderhttp.NewOrderHandler(d.Order)
}

// ProvideClientHandler creates the client HTTP handler.
func ProvideClientHandler(d *domain.Domain) *orderhttp.ClientHandler {
	return orderhttp.NewClientHandler(d.Client)
}

// ProvideNotificationHandler creates the notification HTTP handler.
func ProvideNotificationHandler(d *domain.Domain) *notificationhttp.Handler {
	return notificationhttp.NewHandler(d.Notification)
}

// AppSet is the complete provider set.
var AppSet = wire.NewSet(
	InfraSet,
	AdapterSet,
	DomainSet,
	HandlerSet,
)
