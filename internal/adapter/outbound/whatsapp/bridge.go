package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cargotrack/server/internal/port/outbound"
	"github.com/sony/gobreaker/v2"
)

// DefaultURL is the send-message endpoint used when none is configured.
const DefaultURL = "https://v4.iasuperapi.com/api/v1/send-message"

const chatIDSuffix = "@c.us"

// ErrSendFailed is returned when the messaging API rejects a message.
var ErrSendFailed = errors.New("whatsapp: send failed")

// Config contains bridge configuration.
type Config struct {
	URL   string
	Token string

	// Circuit breaker settings
	FailureThreshold uint32
	CircuitTimeout   time.Duration
}

type sendRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

type sendResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message,omitempty"`
}

// bridge implements outbound.MessagingBridgePort over a WhatsApp gateway.
type bridge struct {
	url     string
	token   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBridge creates a new messaging bridge.
func NewBridge(cfg Config, client *http.Client) outbound.MessagingBridgePort {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.CircuitTimeout == 0 {
		cfg.CircuitTimeout = 60 * time.Second
	}
	if client == nil {
		client = http.DefaultClient
	}

	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        "whatsapp",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.CircuitTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Caller cancellation does not count against the gateway.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &bridge{
		url:     cfg.URL,
		token:   cfg.Token,
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *bridge) SendStateUpdate(ctx context.Context, msg outbound.StateMessage) error {
	payload := sendRequest{
		ChatID:  msg.Phone + chatIDSuffix,
		Message: RenderMessage(msg.State, msg.ProductName),
	}

	_, err := b.breaker.Execute(func() (any, error) {
		return nil, b.send(ctx, &payload)
	})
	if err != nil {
		return fmt.Errorf("send state update for order %d: %w", msg.OrderID, err)
	}
	return nil
}

func (b *bridge) send(ctx context.Context, payload *sendRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.token)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: http status %d", ErrSendFailed, resp.StatusCode)
	}

	var result sendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrSendFailed, err)
	}
	if result.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: api status %d %s", ErrSendFailed, result.StatusCode, result.Message)
	}
	return nil
}

var _ outbound.MessagingBridgePort = (*bridge)(nil)
