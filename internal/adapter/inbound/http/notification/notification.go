package notificationhttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cargotrack/server/internal/domain/notification"
	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/inbound"
	"github.com/gin-gonic/gin"
)

// Handler handles notification HTTP requests.
type Handler struct {
	domain notification.NotificationDomain
}

// NewHandler creates a new notification handler.
func NewHandler(domain notification.NotificationDomain) *Handler {
	return &Handler{domain: domain}
}

// RegisterRoutes registers notification routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("", h.ListNotifications)
		notifications.PATCH("/:id/read", h.MarkRead)
	}
}

type listQuery struct {
	AudienceType  string `form:"audience_type" binding:"required"`
	AudienceValue string `form:"audience_value" binding:"required"`
	Unread        bool   `form:"unread"`
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// ListNotifications handles GET /notifications.
//
//	@Summary	List notifications for an audience
//	@Tags		Notifications
//	@Produce	json
//	@Param		audience_type	query		string	true	"user or role"
//	@Param		audience_value	query		string	true	"Client id or role name"
//	@Param		unread			query		bool	false	"Only unread"
//	@Param		limit			query		int		false	"Max rows"
//	@Success	200				{object}	map[string]interface{}
//	@Failure	400				{object}	model.ErrorResponse
//	@Router		/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	items, err := h.domain.List(c.Request.Context(), &model.NotificationFilter{
		AudienceType:  model.AudienceType(q.AudienceType),
		AudienceValue: q.AudienceValue,
		UnreadOnly:    q.Unread,
		Limit:         q.Limit,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]*model.NotificationResponse, len(items))
	for i, n := range items {
		out[i] = n.ToResponse()
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

// MarkRead handles PATCH /notifications/:id/read.
//
//	@Summary	Mark a notification as read
//	@Tags		Notifications
//	@Param		id	path	int	true	"Notification ID"
//	@Success	204
//	@Failure	404	{object}	model.ErrorResponse
//	@Router		/notifications/{id}/read [patch]
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "ID de notificación inválido"})
		return
	}

	if err := h.domain.MarkRead(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrInvalidAudience):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Audiencia inválida"})
	case errors.Is(err, notification.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Notificación no encontrada"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Error interno del servidor"})
	}
}

var _ inbound.NotificationHttpPort = (*Handler)(nil)
