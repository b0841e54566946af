package domain

import (
	"github.com/cargotrack/server/internal/domain/client"
	"github.com/cargotrack/server/internal/domain/notification"
	"github.com/cargotrack/server/internal/domain/order"
	"github.com/cargotrack/server/internal/infra/events"
	"github.com/cargotrack/server/internal/port/outbound"
	"go.uber.org/zap"
)

// Domain holds all domain services.
// This is the central registry for all business logic.
type Domain struct {
	// Order handles order creation, state transitions and state queries.
	Order order.OrderDomain

	// Client registers order owners.
	Client client.ClientDomain

	// Notification serves the notification queues.
	Notification notification.NotificationDomain

	// Dispatcher fans applied transitions out to notification queues.
	Dispatcher *notification.Dispatcher
}

// OutboundPorts holds all outbound port implementations.
type OutboundPorts struct {
	// Order ports
	Orders  outbound.OrderStorePort
	History outbound.StateHistoryPort

	// Notification ports
	Notifications outbound.NotificationStorePort
	Clients       outbound.ClientDirectoryPort
}

// Config holds domain configuration.
type Config struct {
	Rules notification.RulesConfig

	// Optional observers
	TransitionRecorder   order.TransitionRecorder
	NotificationRecorder notification.Recorder
}

// DefaultConfig returns default domain configuration.
func DefaultConfig() *Config {
	return &Config{
		Rules: notification.DefaultRulesConfig(),
	}
}

// NewDomain creates domain services with dependencies.
func NewDomain(ports *OutboundPorts, publisher events.Publisher, cfg *Config, logger *zap.Logger) *Domain {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var orderOpts []order.Option
	if cfg.TransitionRecorder != nil {
		orderOpts = append(orderOpts, order.WithRecorder(cfg.TransitionRecorder))
	}
	var dispatcherOpts []notification.DispatcherOption
	if cfg.NotificationRecorder != nil {
		dispatcherOpts = append(dispatcherOpts, notification.WithRecorder(cfg.NotificationRecorder))
	}

	return &Domain{
		Order: order.NewOrderDomain(
			ports.Orders,
			ports.History,
			publisher,
			logger.Named("order"),
			orderOpts...,
		),
		Client: client.NewClientDomain(
			ports.Clients,
			logger.Named("client"),
		),
		Notification: notification.NewNotificationDomain(
			ports.Notifications,
			logger.Named("notification"),
		),
		Dispatcher: notification.NewDispatcher(
			ports.Notifications,
			notification.DefaultRules(cfg.Rules),
			logger.Named("dispatcher"),
			dispatcherOpts...,
		),
	}
}
