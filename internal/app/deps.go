package app

import (
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cargotrack/server/internal/domain"
	"github.com/cargotrack/server/internal/domain/notification"

	notificationhttp "github.com/cargotrack/server/internal/adapter/inbound/http/notification"
	orderhttp "github.com/cargotrack/server/internal/adapter/inbound/http/order"

	"github.com/cargotrack/server/internal/port/outbound"

	"github.com/cargotrack/server/internal/infra/config"
	"github.com/cargotrack/server/internal/infra/events"

	"github.com/cargotrack/server/internal/utils/logger"
	"github.com/cargotrack/server/internal/utils/metrics"
)

// Dependencies holds all injected dependencies.
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       goredis.UniversalClient
	RateLimiter outbound.RateLimiterPort
	Logger      *logger.Logger
	ZapLogger   *zap.Logger
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	EventBus    *events.Bus

	// Outbound integrations, nil when not configured
	MessagePort      outbound.MessagePort
	MessagingHandler *notification.MessagingHandler

	// Domains
	Domain *domain.Domain

	// HTTP Handlers
	OrderHandler        *orderhttp.OrderHandler
	ClientHandler       *orderhttp.ClientHandler
	NotificationHandler *notificationhttp.Handler
}
