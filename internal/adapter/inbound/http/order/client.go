package orderhttp

import (
	"net/http"

	"github.com/cargotrack/server/internal/domain/client"
	"github.com/cargotrack/server/internal/model"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client registration.
type ClientHandler struct {
	clientDomain client.ClientDomain
}

// NewClientHandler creates a new client handler.
func NewClientHandler(clientDomain client.ClientDomain) *ClientHandler {
	return &ClientHandler{clientDomain: clientDomain}
}

// RegisterRoutes registers client routes.
func (h *ClientHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/clients", h.CreateClient)
}

// CreateClient handles POST /clients.
//
//	@Summary	Register client
//	@Tags		Clients
//	@Accept		json
//	@Produce	json
//	@Param		request	body		model.CreateClientRequest	true	"Client"
//	@Success	201		{object}	model.ClientResponse
//	@Failure	400		{object}	model.ErrorResponse
//	@Router		/clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.clientDomain.Register(c.Request.Context(), req.Name, req.Phone, req.Email)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created.ToResponse())
}
