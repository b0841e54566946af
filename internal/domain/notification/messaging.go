package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cargotrack/server/internal/domain/order"
	"github.com/cargotrack/server/internal/infra/events"
	"github.com/cargotrack/server/internal/port/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Messaging outcomes reported to the MessagingRecorder.
const (
	MessageSent    = "sent"
	MessageNoPhone = "no_phone"
	MessageFailed  = "failed"
)

// MessagingRecorder receives one observation per bridge attempt.
type MessagingRecorder interface {
	RecordMessage(result string, duration time.Duration)
}

// MessagingHandler forwards client-visible state changes to the external
// messaging bridge. Delivery runs in its own goroutine under a deadline and
// never blocks or fails the publisher.
type MessagingHandler struct {
	clients  outbound.ClientDirectoryPort
	bridge   outbound.MessagingBridgePort
	timeout  time.Duration
	recorder MessagingRecorder
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewMessagingHandler creates a messaging handler. recorder may be nil.
func NewMessagingHandler(
	clients outbound.ClientDirectoryPort,
	bridge outbound.MessagingBridgePort,
	timeout time.Duration,
	recorder MessagingRecorder,
	logger *zap.Logger,
) *MessagingHandler {
	return &MessagingHandler{
		clients:  clients,
		bridge:   bridge,
		timeout:  timeout,
		recorder: recorder,
		logger:   logger,
	}
}

func (h *MessagingHandler) Handles() []string {
	return []string{order.EventStateChanged}
}

func (h *MessagingHandler) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(*order.StateChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", event)
	}
	if e.ClientID == uuid.Nil {
		return nil
	}

	// Detach from the request so the send outlives the response.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer cancel()
		h.send(sendCtx, e)
	}()
	return nil
}

// Wait blocks until in-flight sends finish.
func (h *MessagingHandler) Wait() {
	h.wg.Wait()
}

func (h *MessagingHandler) send(ctx context.Context, e *order.StateChangedEvent) {
	start := time.Now()
	logger := h.logger.With(
		zap.Int64("order_id", e.OrderID),
		zap.Int("state", int(e.State)),
	)

	phone, err := h.clients.GetPhone(ctx, e.ClientID)
	if err != nil {
		logger.Warn("failed to resolve client phone", zap.Error(err))
		h.record(MessageFailed, start)
		return
	}
	if phone == "" {
		logger.Debug("client has no phone on file")
		h.record(MessageNoPhone, start)
		return
	}

	err = h.bridge.SendStateUpdate(ctx, outbound.StateMessage{
		Phone:       phone,
		OrderID:     e.OrderID,
		State:       e.State,
		ProductName: e.ProductName,
	})
	if err != nil {
		logger.Warn("failed to send state update message", zap.Error(err))
		h.record(MessageFailed, start)
		return
	}
	logger.Info("state update message sent")
	h.record(MessageSent, start)
}

func (h *MessagingHandler) record(result string, start time.Time) {
	if h.recorder != nil {
		h.recorder.RecordMessage(result, time.Since(start))
	}
}
