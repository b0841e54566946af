package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cargotrack/server/internal/infra/events"
	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultChangedBy = "system"
	defaultNotes     = "Estado actualizado vía API"
	unknownClient    = "unknown"

	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// TransitionInput is a requested state change.
type TransitionInput struct {
	OrderID int64
	State   model.State

	// Metadata holds the fields the caller supplied explicitly. The history
	// row is backfilled only when at least one of them is set.
	Metadata model.HistoryMetadata

	// RemoteIP and UserAgent are request-derived fallbacks for Metadata.
	RemoteIP  string
	UserAgent string
}

// TransitionResult describes the outcome of TransitionState.
type TransitionResult struct {
	OrderID       int64
	PreviousState model.State
	State         model.State
	History       *model.StateHistory
	Timestamp     time.Time
	NoOp          bool
}

// StateView is the current state of an order with its latest history row.
type StateView struct {
	OrderID    int64
	State      model.State
	StateName  string
	CreatedAt  time.Time
	LastChange *model.StateHistory
}

// OrderDomain defines the interface for order business logic.
type OrderDomain interface {
	CreateOrder(ctx context.Context, clientID uuid.UUID, productName string) (*model.Order, error)

	// TransitionState validates and applies a state change, then publishes
	// EventStateChanged. Side-effect failures never fail the call.
	TransitionState(ctx context.Context, in *TransitionInput) (*TransitionResult, error)

	GetState(ctx context.Context, orderID int64) (*StateView, error)
	ListHistory(ctx context.Context, orderID int64, limit int) ([]*model.StateHistory, error)
}

// Transition outcomes reported to a TransitionRecorder.
const (
	OutcomeApplied  = "applied"
	OutcomeNoOp     = "noop"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeFailed   = "failed"
)

// TransitionRecorder observes transition outcomes.
type TransitionRecorder interface {
	RecordTransition(outcome string)
}

// Option configures the order domain.
type Option func(*orderDomain)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *orderDomain) {
		d.now = now
	}
}

// WithRecorder reports transition outcomes to r.
func WithRecorder(r TransitionRecorder) Option {
	return func(d *orderDomain) {
		d.recorder = r
	}
}

// orderDomain implements OrderDomain.
type orderDomain struct {
	orders    outbound.OrderStorePort
	history   outbound.StateHistoryPort
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	recorder  TransitionRecorder
}

// NewOrderDomain creates a new order domain service.
func NewOrderDomain(
	orders outbound.OrderStorePort,
	history outbound.StateHistoryPort,
	publisher events.Publisher,
	logger *zap.Logger,
	opts ...Option,
) OrderDomain {
	d := &orderDomain{
		orders:    orders,
		history:   history,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *orderDomain) CreateOrder(ctx context.Context, clientID uuid.UUID, productName string) (*model.Order, error) {
	now := d.now().UTC()
	order := &model.Order{
		ClientID:        clientID,
		ProductName:     productName,
		State:           model.StateCreated,
		MaxStateReached: model.StateCreated,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := d.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The order is already committed, so this is best-effort.
	if err := d.history.Append(ctx, &model.StateHistory{
		OrderID:   order.ID,
		State:     order.State,
		Timestamp: now,
	}); err != nil {
		d.logger.Warn("failed to record initial order state",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	}

	d.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.String("client_id", clientID.String()),
	)
	return order, nil
}

func (d *orderDomain) TransitionState(ctx context.Context, in *TransitionInput) (*TransitionResult, error) {
	if !in.State.IsValid() {
		return nil, ErrInvalidState
	}

	order, err := d.getOrder(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}

	previous := order.State
	decision := Validate(previous, in.State)
	switch decision.Kind {
	case NoOp:
		d.record(OutcomeNoOp)
		return &TransitionResult{
			OrderID:       order.ID,
			PreviousState: previous,
			State:         previous,
			NoOp:          true,
		}, nil
	case Rejected:
		d.logger.Info("order transition rejected",
			zap.Int64("order_id", order.ID),
			zap.Int("from", int(previous)),
			zap.Int("to", int(in.State)),
			zap.Error(decision.Err),
		)
		d.record(OutcomeRejected)
		return nil, decision.Err
	}

	at := d.now().UTC()
	change := &model.StateChange{
		OrderID:         order.ID,
		From:            previous,
		To:              in.State,
		MaxStateReached: nextMaxState(order.MaxStateReached, in.State),
		At:              at,
	}
	record, err := d.orders.SetState(ctx, change)
	if err != nil {
		if errors.Is(err, ErrStateConflict) {
			d.record(OutcomeConflict)
			return nil, ErrStateConflict
		}
		d.logger.Error("order state write failed",
			zap.Int64("order_id", order.ID),
			zap.Int("to", int(in.State)),
			zap.Error(err),
		)
		d.record(OutcomeFailed)
		return nil, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}

	order.State = change.To
	order.MaxStateReached = change.MaxStateReached
	order.UpdatedAt = at

	if record != nil && !in.Metadata.IsEmpty() {
		d.backfill(ctx, record, in)
	}

	result := &TransitionResult{
		OrderID:       order.ID,
		PreviousState: previous,
		State:         change.To,
		History:       record,
		Timestamp:     at,
	}
	var historyID *int64
	if record != nil {
		result.Timestamp = record.Timestamp
		historyID = &record.ID
	}

	d.logger.Info("order state changed",
		zap.Int64("order_id", order.ID),
		zap.Int("from", int(previous)),
		zap.Int("to", int(change.To)),
	)
	d.record(OutcomeApplied)

	if d.publisher != nil {
		d.publisher.Publish(ctx, NewStateChangedEvent(order, previous, historyID, at))
	}
	return result, nil
}

func (d *orderDomain) GetState(ctx context.Context, orderID int64) (*StateView, error) {
	order, err := d.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	last, err := d.history.Latest(ctx, orderID)
	if err != nil {
		d.logger.Warn("failed to load latest order history",
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
		last = nil
	}

	return &StateView{
		OrderID:    order.ID,
		State:      order.State,
		StateName:  order.State.Label(),
		CreatedAt:  order.CreatedAt,
		LastChange: last,
	}, nil
}

func (d *orderDomain) ListHistory(ctx context.Context, orderID int64, limit int) ([]*model.StateHistory, error) {
	if _, err := d.getOrder(ctx, orderID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := d.history.List(ctx, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	return records, nil
}

// --- Helpers ---

func (d *orderDomain) getOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := d.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (d *orderDomain) record(outcome string) {
	if d.recorder != nil {
		d.recorder.RecordTransition(outcome)
	}
}

// backfill writes caller metadata onto record. Failures are logged only.
func (d *orderDomain) backfill(ctx context.Context, record *model.StateHistory, in *TransitionInput) {
	meta := model.HistoryMetadata{
		ChangedBy: valueOr(in.Metadata.ChangedBy, defaultChangedBy),
		Notes:     valueOr(in.Metadata.Notes, defaultNotes),
		IPAddress: valueOr(in.Metadata.IPAddress, in.RemoteIP, unknownClient),
		UserAgent: valueOr(in.Metadata.UserAgent, in.UserAgent, unknownClient),
	}

	if err := d.history.UpdateMetadata(ctx, record.ID, meta); err != nil {
		d.logger.Warn("failed to backfill order history metadata",
			zap.Int64("order_id", record.OrderID),
			zap.Int64("history_id", record.ID),
			zap.Error(err),
		)
		return
	}

	record.ChangedBy = meta.ChangedBy
	record.Notes = meta.Notes
	record.IPAddress = meta.IPAddress
	record.UserAgent = meta.UserAgent
}

// valueOr returns v when set and non-empty, otherwise the first non-empty fallback.
func valueOr(v *string, fallbacks ...string) *string {
	if v != nil && *v != "" {
		return v
	}
	for _, f := range fallbacks {
		if f != "" {
			return &f
		}
	}
	return nil
}
