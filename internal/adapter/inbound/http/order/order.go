package orderhttp

import (
	"net/http"
	"strconv"

	"github.com/cargotrack/server/internal/domain/order"
	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/inbound"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order HTTP requests.
type OrderHandler struct {
	orderDomain order.OrderDomain
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderDomain order.OrderDomain) *OrderHandler {
	return &OrderHandler{orderDomain: orderDomain}
}

// RegisterRoutes registers order routes.
func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:id/state", h.GetState)
		orders.PUT("/:id/state", h.UpdateState)
		orders.PATCH("/:id/state", h.UpdateState)
		orders.GET("/:id/state/history", h.ListHistory)
	}
}

// CreateOrder handles POST /orders.
//
//	@Summary	Create order
//	@Tags		Orders
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.CreateOrderRequest	true	"Order"
//	@Success	201		{object}	model.OrderResponse
//	@Failure	400		{object}	model.ErrorResponse
//	@Router		/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	clientID := uuid.MustParse(req.ClientID)

	ord, err := h.orderDomain.CreateOrder(c.Request.Context(), clientID, req.ProductName)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ord.ToResponse())
}

// UpdateState handles PUT|PATCH /orders/:id/state.
//
//	@Summary		Change order state
//	@Description	Validates and applies a state change, then notifies the affected audiences.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Order ID"
//	@Param			request	body		model.TransitionRequest		true	"Requested state"
//	@Success		200		{object}	model.TransitionResponse
//	@Failure		400		{object}	model.ErrorResponse	"Invalid id, invalid state or cancellation after payment"
//	@Failure		404		{object}	model.ErrorResponse
//	@Failure		409		{object}	model.ErrorResponse	"Concurrent modification"
//	@Failure		500		{object}	model.ErrorResponse
//	@Router			/orders/{id}/state [put]
func (h *OrderHandler) UpdateState(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req model.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.State == nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidState})
		return
	}

	result, err := h.orderDomain.TransitionState(c.Request.Context(), &order.TransitionInput{
		OrderID: orderID,
		State:   model.State(*req.State),
		Metadata: model.HistoryMetadata{
			ChangedBy: req.ChangedBy,
			Notes:     req.Notes,
			IPAddress: req.IPAddress,
			UserAgent: req.UserAgent,
		},
		RemoteIP:  remoteIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		handleError(c, err)
		return
	}

	if result.NoOp {
		c.JSON(http.StatusOK, model.UnchangedResponse{
			Success:       true,
			Message:       msgStateUnchanged,
			OrderID:       result.OrderID,
			State:         result.State,
			PreviousState: result.PreviousState,
		})
		return
	}

	resp := model.TransitionResponse{
		Success:       true,
		Message:       msgStateUpdated,
		OrderID:       result.OrderID,
		State:         result.State,
		PreviousState: result.PreviousState,
		Timestamp:     result.Timestamp,
	}
	if result.History != nil {
		resp.HistoryID = &result.History.ID
	}
	c.JSON(http.StatusOK, resp)
}

// GetState handles GET /orders/:id/state.
//
//	@Summary	Get order state
//	@Tags		Orders
//	@Produce	json
//	@Param		id	path		int	true	"Order ID"
//	@Success	200	{object}	model.StateQueryResponse
//	@Failure	400	{object}	model.ErrorResponse
//	@Failure	404	{object}	model.ErrorResponse
//	@Router		/orders/{id}/state [get]
func (h *OrderHandler) GetState(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	view, err := h.orderDomain.GetState(c.Request.Context(), orderID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.StateQueryResponse{
		Success:    true,
		OrderID:    view.OrderID,
		State:      view.State,
		StateName:  view.StateName,
		CreatedAt:  view.CreatedAt,
		LastChange: view.LastChange.ToResponse(),
	})
}

// ListHistory handles GET /orders/:id/state/history.
//
//	@Summary	List order state history
//	@Tags		Orders
//	@Produce	json
//	@Param		id		path		int	true	"Order ID"
//	@Param		limit	query		int	false	"Max rows (default 50, max 200)"
//	@Success	200		{object}	map[string]interface{}
//	@Failure	404		{object}	model.ErrorResponse
//	@Router		/orders/{id}/state/history [get]
func (h *OrderHandler) ListHistory(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := h.orderDomain.ListHistory(c.Request.Context(), orderID, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	history := make([]*model.HistoryResponse, len(rows))
	for i, row := range rows {
		history[i] = row.ToResponse()
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "history": history})
}

// remoteIP returns the proxy-reported client address, if any.
func remoteIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	return c.GetHeader("X-Real-IP")
}

var _ inbound.OrderHttpPort = (*OrderHandler)(nil)
