package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"github.com/gin-gonic/gin"
)

const (
	// RateLimitRemaining is the header for remaining requests.
	RateLimitRemaining = "X-RateLimit-Remaining"
	// RateLimitLimit is the header for the limit.
	RateLimitLimit = "X-RateLimit-Limit"
	// RetryAfter is the header for retry time.
	RetryAfter = "Retry-After"
)

// RateLimitConfig holds rate limit configuration.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyFunc generates the rate limit key. Defaults to the client IP.
	KeyFunc func(*gin.Context) string
	// OnError is called when the limiter fails. The request is let through.
	OnError func(*gin.Context, error)
}

// RateLimit returns a middleware that limits requests using the given limiter.
// A nil limiter disables the middleware.
func RateLimit(limiter outbound.RateLimiterPort, cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string {
			return "ip:" + c.ClientIP()
		}
	}

	return func(c *gin.Context) {
		if limiter == nil || cfg.Limit <= 0 {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)
		ctx := c.Request.Context()

		allowed, err := limiter.Allow(ctx, key, cfg.Limit, cfg.Window)
		if err != nil {
			if cfg.OnError != nil {
				cfg.OnError(c, err)
			}
			c.Next()
			return
		}

		c.Header(RateLimitLimit, strconv.Itoa(cfg.Limit))
		if remaining, err := limiter.GetRemaining(ctx, key, cfg.Limit, cfg.Window); err == nil {
			c.Header(RateLimitRemaining, strconv.Itoa(remaining))
		}

		if !allowed {
			c.Header(RetryAfter, strconv.Itoa(int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Error: "Demasiadas solicitudes, intenta de nuevo más tarde",
			})
			return
		}

		c.Next()
	}
}

// IPRouteKey keys a request by client IP, method and matched route.
func IPRouteKey(c *gin.Context) string {
	return "ip:" + c.ClientIP() + ":" + c.Request.Method + ":" + c.FullPath()
}
