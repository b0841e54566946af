package orderhttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cargotrack/server/internal/domain/client"
	"github.com/cargotrack/server/internal/domain/order"
	"github.com/cargotrack/server/internal/model"
	"github.com/gin-gonic/gin"
)

// Error messages returned by the order API.
const (
	msgInvalidOrderID   = "ID de pedido inválido"
	msgInvalidState     = "Estado inválido. Debe estar entre 1 y 13, o ser estados de cancelación (-1, -2)"
	msgOrderNotFound    = "Pedido no encontrado"
	msgCannotCancel     = "No se puede cancelar un pedido después de que el pago ha sido validado"
	msgStateConflict    = "El pedido fue modificado por otra solicitud"
	msgStateWriteFailed = "Error al actualizar el estado del pedido"
	msgInternal         = "Error interno del servidor"

	msgStateUnchanged = "Estado sin cambios"
	msgStateUpdated   = "Estado actualizado correctamente"
)

// parseOrderID reads the :id path parameter. It writes a 400 response and
// returns false when the id is not an integer.
func parseOrderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidOrderID})
		return 0, false
	}
	return id, true
}

// handleError maps order domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, order.ErrInvalidState):
		statusCode = http.StatusBadRequest
		message = msgInvalidState

	case errors.Is(err, order.ErrOrderNotFound):
		statusCode = http.StatusNotFound
		message = msgOrderNotFound

	case errors.Is(err, order.ErrCannotCancelAfterPayment):
		statusCode = http.StatusBadRequest
		message = msgCannotCancel

	case errors.Is(err, order.ErrStateConflict):
		statusCode = http.StatusConflict
		message = msgStateConflict

	case errors.Is(err, order.ErrStoreWrite):
		statusCode = http.StatusInternalServerError
		message = msgStateWriteFailed

	case errors.Is(err, client.ErrInvalidClient):
		statusCode = http.StatusBadRequest
		message = "El nombre del cliente es obligatorio"

	default:
		statusCode = http.StatusInternalServerError
		message = msgInternal
	}

	_ = c.Error(err)
	c.JSON(statusCode, model.ErrorResponse{Error: message})
}
