package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const (
	// IdempotencyKeyHeader is the header for idempotency key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the cache.
	IdempotencyReplayedHeader = "Idempotency-Replayed"

	idempotencyKeyPrefix  = "idempotency:"
	defaultIdempotencyTTL = 24 * time.Hour
	idempotencyLockTTL    = 30 * time.Second
)

// IdempotencyConfig holds idempotency middleware configuration.
type IdempotencyConfig struct {
	TTL time.Duration
	// Methods are the HTTP methods checked. Default: POST, PUT, PATCH.
	Methods []string
}

// cachedResponse is a response stored under an idempotency key.
type cachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	BodyHash    string `json:"body_hash"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// A key reused with a different request body is rejected with 422.
// A nil client disables the middleware.
func Idempotency(redis goredis.UniversalClient, cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL == 0 {
		cfg.TTL = defaultIdempotencyTTL
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = []string{http.MethodPost, http.MethodPut, http.MethodPatch}
	}
	methods := make(map[string]bool, len(cfg.Methods))
	for _, m := range cfg.Methods {
		methods[m] = true
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if redis == nil || key == "" || !methods[c.Request.Method] {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyCacheKey(c, key)
		bodyHash, err := hashBody(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, model.ErrorResponse{Error: "Cuerpo de la solicitud inválido"})
			return
		}

		if cached, err := loadResponse(ctx, redis, cacheKey); err == nil {
			if cached.BodyHash != bodyHash {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, model.ErrorResponse{
					Error: "La clave de idempotencia ya fue usada con otra solicitud",
				})
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		lockKey := cacheKey + ":lock"
		locked, err := redis.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
		if err != nil {
			c.Next()
			return
		}
		if !locked {
			c.AbortWithStatusJSON(http.StatusConflict, model.ErrorResponse{
				Error: "Ya se está procesando una solicitud con esta clave de idempotencia",
			})
			return
		}
		defer redis.Del(context.WithoutCancel(ctx), lockKey)

		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		// 5xx responses are not cached so the client can retry.
		if status := w.Status(); status < http.StatusInternalServerError {
			_ = storeResponse(context.WithoutCancel(ctx), redis, cacheKey, &cachedResponse{
				StatusCode:  status,
				ContentType: w.Header().Get("Content-Type"),
				BodyHash:    bodyHash,
				Body:        w.body.Bytes(),
			}, cfg.TTL)
		}
	}
}

func idempotencyCacheKey(c *gin.Context, key string) string {
	hash := sha256.Sum256([]byte(c.Request.Method + ":" + c.Request.URL.Path + ":" + key))
	return idempotencyKeyPrefix + hex.EncodeToString(hash[:])
}

// hashBody hashes the request body and restores it for later handlers.
func hashBody(c *gin.Context) (string, error) {
	if c.Request.Body == nil {
		return "", nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	hash := sha256.Sum256(body)
	return hex.EncodeToString(hash[:]), nil
}

func loadResponse(ctx context.Context, redis goredis.UniversalClient, key string) (*cachedResponse, error) {
	data, err := redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var resp cachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func storeResponse(ctx context.Context, redis goredis.UniversalClient, key string, resp *cachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return redis.Set(ctx, key, data, ttl).Err()
}
