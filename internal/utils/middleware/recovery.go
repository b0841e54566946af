package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/utils/logger"
	"github.com/gin-gonic/gin"
)

// Recovery returns a middleware that turns panics into a 500 response.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.ErrorContext(c.Request.Context(), "Panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"client_ip", c.ClientIP(),
					"stack", string(debug.Stack()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{
					Error: "Error interno del servidor",
				})
			}
		}()
		c.Next()
	}
}
