package notification

import (
	"context"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/cargotrack/server/internal/port/outbound"
	"go.uber.org/zap"
)

// Dispatch outcomes reported to the Recorder.
const (
	ResultCreated = "created"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// Recorder receives one observation per evaluated rule.
type Recorder interface {
	RecordNotification(rule, result string)
}

// DispatchResult summarizes one Dispatch call.
type DispatchResult struct {
	Created []*model.Notification
	Skipped int
	Failed  int
}

// Dispatcher writes the notifications a transition fans out to.
type Dispatcher struct {
	store    outbound.NotificationStorePort
	rules    []Rule
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock overrides the time source used for dedup windows and created_at.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) DispatcherOption {
	return func(d *Dispatcher) {
		d.recorder = r
	}
}

// NewDispatcher creates a dispatcher evaluating rules in order.
func NewDispatcher(store outbound.NotificationStorePort, rules []Rule, logger *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		rules:  rules,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch evaluates every rule against t. Each rule is independent: a failed
// lookup or insert is logged and the remaining rules still run.
func (d *Dispatcher) Dispatch(ctx context.Context, t Transition) *DispatchResult {
	result := &DispatchResult{}
	for _, rule := range d.rules {
		if !rule.Match(t.NewState) {
			continue
		}
		audience, ok := rule.Audience(t)
		if !ok {
			continue
		}

		outcome, n := d.apply(ctx, rule, t, audience)
		switch outcome {
		case ResultCreated:
			result.Created = append(result.Created, n)
		case ResultSkipped:
			result.Skipped++
		case ResultFailed:
			result.Failed++
		}
		if d.recorder != nil {
			d.recorder.RecordNotification(rule.Name, outcome)
		}
	}
	return result
}

func (d *Dispatcher) apply(ctx context.Context, rule Rule, t Transition, audience Audience) (string, *model.Notification) {
	now := d.now().UTC()
	logger := d.logger.With(
		zap.String("rule", rule.Name),
		zap.Int64("order_id", t.OrderID),
		zap.String("audience_type", string(audience.Type)),
		zap.String("audience_value", audience.Value),
	)

	if rule.Dedup.Kind != DedupNone {
		key := model.DedupKey{
			AudienceType:  audience.Type,
			AudienceValue: audience.Value,
			OrderID:       t.OrderID,
			Title:         rule.Template.Title,
		}
		exists, err := d.store.ExistsSince(ctx, key, rule.Dedup.since(now))
		if err != nil {
			logger.Warn("notification dedup lookup failed", zap.Error(err))
			return ResultFailed, nil
		}
		if exists {
			logger.Debug("notification suppressed as duplicate")
			return ResultSkipped, nil
		}
	}

	n := rule.Template.render(t, audience)
	n.CreatedAt = now
	if err := d.store.Create(ctx, n); err != nil {
		logger.Warn("failed to create notification", zap.Error(err))
		return ResultFailed, nil
	}
	return ResultCreated, n
}
