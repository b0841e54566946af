package inbound

import "github.com/gin-gonic/gin"

// OrderHttpPort defines HTTP handler interface for order operations.
type OrderHttpPort interface {
	// CreateOrder handles POST /orders
	CreateOrder(c *gin.Context)

	// UpdateState handles PUT|PATCH /orders/:id/state
	UpdateState(c *gin.Context)

	// GetState handles GET /orders/:id/state
	GetState(c *gin.Context)

	// ListHistory handles GET /orders/:id/state/history
	ListHistory(c *gin.Context)
}

// NotificationHttpPort defines HTTP handler interface for notification operations.
type NotificationHttpPort interface {
	// ListNotifications handles GET /notifications
	ListNotifications(c *gin.Context)

	// MarkRead handles PATCH /notifications/:id/read
	MarkRead(c *gin.Context)
}

// ClientHttpPort defines HTTP handler interface for client operations.
type ClientHttpPort interface {
	// CreateClient handles POST /clients
	CreateClient(c *gin.Context)
}
