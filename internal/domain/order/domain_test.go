package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cargotrack/server/internal/infra/events"
	"github.com/cargotrack/server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mock implementations ---

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil {
		order.ID = 1
	}
	return args.Error(0)
}

func (m *MockOrderStore) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderStore) SetState(ctx context.Context, change *model.StateChange) (*model.StateHistory, error) {
	args := m.Called(ctx, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StateHistory), args.Error(1)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Append(ctx context.Context, record *model.StateHistory) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistory) Latest(ctx context.Context, orderID int64) (*model.StateHistory, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StateHistory), args.Error(1)
}

func (m *MockHistory) UpdateMetadata(ctx context.Context, id int64, meta model.HistoryMetadata) error {
	args := m.Called(ctx, id, meta)
	return args.Error(0)
}

func (m *MockHistory) List(ctx context.Context, orderID int64, limit int) ([]*model.StateHistory, error) {
	args := m.Called(ctx, orderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.StateHistory), args.Error(1)
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) {
	p.published = append(p.published, event)
}

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestDomain(orders *MockOrderStore, history *MockHistory, pub *recordingPublisher) OrderDomain {
	return NewOrderDomain(orders, history, pub, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
}

// --- Tests ---

func TestOrderDomain_TransitionState(t *testing.T) {
	clientID := uuid.New()

	t.Run("accepted transition", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		pub := &recordingPublisher{}
		domain := newTestDomain(orders, history, pub)

		order := &model.Order{ID: 42, ClientID: clientID, State: model.StateReceived, MaxStateReached: model.StateReceived}
		row := &model.StateHistory{ID: 900, OrderID: 42, State: model.StateAssigned, Timestamp: fixedNow}

		orders.On("GetByID", mock.Anything, int64(42)).Return(order, nil)
		orders.On("SetState", mock.Anything, &model.StateChange{
			OrderID:         42,
			From:            model.StateReceived,
			To:              model.StateAssigned,
			MaxStateReached: model.StateAssigned,
			At:              fixedNow,
		}).Return(row, nil)

		result, err := domain.TransitionState(context.Background(), &TransitionInput{OrderID: 42, State: model.StateAssigned})

		require.NoError(t, err)
		assert.False(t, result.NoOp)
		assert.Equal(t, model.StateReceived, result.PreviousState)
		assert.Equal(t, model.StateAssigned, result.State)
		assert.Equal(t, row, result.History)
		assert.Equal(t, fixedNow, result.Timestamp)
		history.AssertNotCalled(t, "UpdateMetadata", mock.Anything, mock.Anything, mock.Anything)

		require.Len(t, pub.published, 1)
		evt := pub.published[0].(*StateChangedEvent)
		assert.Equal(t, EventStateChanged, evt.EventType())
		assert.Equal(t, "42", evt.AggregateID())
		assert.Equal(t, clientID, evt.ClientID)
		assert.Equal(t, model.StateReceived, evt.PreviousState)
		assert.Equal(t, model.StateAssigned, evt.State)
		assert.Equal(t, int64(900), *evt.HistoryID)
		orders.AssertExpectations(t)
		history.AssertExpectations(t)
	})

	t.Run("no-op when state unchanged", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		pub := &recordingPublisher{}
		domain := newTestDomain(orders, history, pub)

		orders.On("GetByID", mock.Anything, int64(9)).Return(&model.Order{ID: 9, State: model.StateQuoted}, nil)

		result, err := domain.TransitionState(context.Background(), &TransitionInput{OrderID: 9, State: model.StateQuoted})

		require.NoError(t, err)
		assert.True(t, result.NoOp)
		assert.Equal(t, model.StateQuoted, result.PreviousState)
		assert.Equal(t, model.StateQuoted, result.State)
		orders.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything)
		assert.Empty(t, pub.published)
	})

	t.Run("cancel after payment rejected", func(t *testing.T) {
		orders := new(MockOrderStore)
		pub := &recordingPublisher{}
		domain := newTestDomain(orders, new(MockHistory), pub)

		orders.On("GetByID", mock.Anything, int64(7)).Return(&model.Order{ID: 7, State: model.StatePackingBox}, nil)

		result, err := domain.TransitionState(context.Background(), &TransitionInput{OrderID: 7, State: model.StateRejected})

		assert.ErrorIs(t, err, ErrCannotCancelAfterPayment)
		assert.Nil(t, result)
		orders.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything)
		assert.Empty(t, pub.published)
	})

	t.Run("invalid state", func(t *testing.T) {
		domain := newTestDomain(new(MockOrderStore), new(MockHistory), &recordingPublisher{})

		for _, s := range []model.State{0, 14, -3} {
			_, err := domain.TransitionState(context.Background(), &TransitionInput{OrderID: 1, State: s})
			assert.ErrorIs(t, err, ErrInvalidState)
		}
	})

	t.Run("order not found", func(t *testing.T) {
		orders := new(MockOrderStore)
		domain := newTestDomain(orders, new(MockHistory), &recordingPublisher{})

		orders.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

		_, err := domain.TransitionState(context.Background(), &TransitionInput{OrderID: 404, State: model.StateReceived})

		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("store write error has no side effects", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		pub := &recordingPublisher{}
		domain := newTestDomain(orders, history, pub)

		cause := errors.New("connection reset")
		orders.On("GetByID", mock.Anything, int64(5)).Return(&model.Order{ID: 5, State: model.StateCreated, MaxStateReached: model.StateCreated}, nil)
		orders.On("SetState", mock.Anything, mock.Anything).Return(nil, cause)

		_, err := domain.TransitionState(context.Background(), &TransitionInput{OrderID: 5, State: model.StateReceived})

		assert.ErrorIs(t, err, ErrStoreWrite)
		assert.ErrorIs(t, err, cause)
		history.AssertNotCalled(t, "UpdateMetadata", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, pub.published)
	})

	t.Run("concurrent modification", func(t *testing.T) {
		orders := new(MockOrderStore)
		domain := newTestDomain(orders, new(MockHistory), &recordingPublisher{})

		orders.On("GetByID", mock.Anything, int64(5)).Return(&model.Order{ID: 5, State: model.StateCreated}, nil)
		orders.On("SetState", mock.Anything, mock.Anything).Return(nil, ErrStateConflict)

		_, err := domain.TransitionState(context.Background(), &TransitionInput{OrderID: 5, State: model.StateReceived})

		assert.ErrorIs(t, err, ErrStateConflict)
		assert.NotErrorIs(t, err, ErrStoreWrite)
	})

	t.Run("cancellation keeps high-water mark", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, &recordingPublisher{})

		orders.On("GetByID", mock.Anything, int64(3)).Return(&model.Order{ID: 3, State: model.StateAssigned, MaxStateReached: model.StateAssigned}, nil)
		orders.On("SetState", mock.Anything, mock.MatchedBy(func(c *model.StateChange) bool {
			return c.To == model.StateCancelled && c.MaxStateReached == model.StateAssigned
		})).Return(nil, nil)

		result, err := domain.TransitionState(context.Background(), &TransitionInput{OrderID: 3, State: model.StateCancelled})

		require.NoError(t, err)
		assert.Nil(t, result.History)
		assert.Equal(t, fixedNow, result.Timestamp)
		orders.AssertExpectations(t)
	})

	t.Run("backfills metadata with defaults", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, &recordingPublisher{})

		row := &model.StateHistory{ID: 11, OrderID: 8, State: model.StateProcessing, Timestamp: fixedNow}
		orders.On("GetByID", mock.Anything, int64(8)).Return(&model.Order{ID: 8, State: model.StateAssigned, MaxStateReached: model.StateAssigned}, nil)
		orders.On("SetState", mock.Anything, mock.Anything).Return(row, nil)
		history.On("UpdateMetadata", mock.Anything, int64(11), model.HistoryMetadata{
			ChangedBy: strPtr("pagos@example.com"),
			Notes:     strPtr(defaultNotes),
			IPAddress: strPtr("10.0.0.1"),
			UserAgent: strPtr(unknownClient),
		}).Return(nil)

		result, err := domain.TransitionState(context.Background(), &TransitionInput{
			OrderID:  8,
			State:    model.StateProcessing,
			Metadata: model.HistoryMetadata{ChangedBy: strPtr("pagos@example.com")},
			RemoteIP: "10.0.0.1",
		})

		require.NoError(t, err)
		assert.Equal(t, "pagos@example.com", *result.History.ChangedBy)
		assert.Equal(t, "10.0.0.1", *result.History.IPAddress)
		history.AssertExpectations(t)
	})

	t.Run("backfill failure is not fatal", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		pub := &recordingPublisher{}
		domain := newTestDomain(orders, history, pub)

		row := &model.StateHistory{ID: 12, OrderID: 8, State: model.StateProcessing, Timestamp: fixedNow}
		orders.On("GetByID", mock.Anything, int64(8)).Return(&model.Order{ID: 8, State: model.StateAssigned}, nil)
		orders.On("SetState", mock.Anything, mock.Anything).Return(row, nil)
		history.On("UpdateMetadata", mock.Anything, int64(12), mock.Anything).Return(errors.New("timeout"))

		result, err := domain.TransitionState(context.Background(), &TransitionInput{
			OrderID:  8,
			State:    model.StateProcessing,
			Metadata: model.HistoryMetadata{Notes: strPtr("ok")},
		})

		require.NoError(t, err)
		assert.Nil(t, result.History.Notes)
		assert.Len(t, pub.published, 1)
	})

	t.Run("backfills the row written by this transition", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, &recordingPublisher{})

		// A newer row for the same state may already exist; only ours is touched.
		written := &model.StateHistory{ID: 77, OrderID: 8, State: model.StateProcessing, Timestamp: fixedNow}
		orders.On("GetByID", mock.Anything, int64(8)).Return(&model.Order{ID: 8, State: model.StatePaymentValidated}, nil)
		orders.On("SetState", mock.Anything, mock.Anything).Return(written, nil)
		history.On("UpdateMetadata", mock.Anything, int64(77), mock.Anything).Return(nil)

		result, err := domain.TransitionState(context.Background(), &TransitionInput{
			OrderID:  8,
			State:    model.StateProcessing,
			Metadata: model.HistoryMetadata{Notes: strPtr("empacar hoy")},
		})

		require.NoError(t, err)
		assert.Same(t, written, result.History)
		assert.Equal(t, "empacar hoy", *result.History.Notes)
		history.AssertExpectations(t)
		history.AssertNumberOfCalls(t, "UpdateMetadata", 1)
	})
}

func TestOrderDomain_GetState(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, nil)

		created := fixedNow.Add(-time.Hour)
		last := &model.StateHistory{ID: 3, OrderID: 42, State: model.StateQuoted, Timestamp: fixedNow}
		orders.On("GetByID", mock.Anything, int64(42)).Return(&model.Order{ID: 42, State: model.StateQuoted, CreatedAt: created}, nil)
		history.On("Latest", mock.Anything, int64(42)).Return(last, nil)

		view, err := domain.GetState(context.Background(), 42)

		require.NoError(t, err)
		assert.Equal(t, model.StateQuoted, view.State)
		assert.Equal(t, "Cotizado", view.StateName)
		assert.Equal(t, created, view.CreatedAt)
		assert.Equal(t, last, view.LastChange)
	})

	t.Run("not found", func(t *testing.T) {
		orders := new(MockOrderStore)
		domain := newTestDomain(orders, new(MockHistory), nil)

		orders.On("GetByID", mock.Anything, int64(1)).Return(nil, nil)

		view, err := domain.GetState(context.Background(), 1)

		assert.ErrorIs(t, err, ErrOrderNotFound)
		assert.Nil(t, view)
	})

	t.Run("history error yields nil last change", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, nil)

		orders.On("GetByID", mock.Anything, int64(2)).Return(&model.Order{ID: 2, State: model.StateCreated}, nil)
		history.On("Latest", mock.Anything, int64(2)).Return(nil, errors.New("boom"))

		view, err := domain.GetState(context.Background(), 2)

		require.NoError(t, err)
		assert.Nil(t, view.LastChange)
	})
}

func TestOrderDomain_CreateOrder(t *testing.T) {
	t.Run("records initial history", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, nil)

		clientID := uuid.New()
		orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.ClientID == clientID && o.State == model.StateCreated && o.MaxStateReached == model.StateCreated
		})).Return(nil)
		history.On("Append", mock.Anything, &model.StateHistory{
			OrderID:   1,
			State:     model.StateCreated,
			Timestamp: fixedNow,
		}).Return(nil)

		order, err := domain.CreateOrder(context.Background(), clientID, "Zapatos")

		require.NoError(t, err)
		assert.Equal(t, int64(1), order.ID)
		assert.Equal(t, "Zapatos", order.ProductName)
		assert.Equal(t, fixedNow, order.CreatedAt)
		orders.AssertExpectations(t)
		history.AssertExpectations(t)
	})

	t.Run("history failure is not fatal", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, nil)

		orders.On("Create", mock.Anything, mock.Anything).Return(nil)
		history.On("Append", mock.Anything, mock.Anything).Return(errors.New("timeout"))

		order, err := domain.CreateOrder(context.Background(), uuid.New(), "Zapatos")

		require.NoError(t, err)
		assert.Equal(t, int64(1), order.ID)
	})

	t.Run("store failure", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, nil)

		orders.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := domain.CreateOrder(context.Background(), uuid.New(), "Zapatos")

		assert.Error(t, err)
		history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

func TestOrderDomain_ListHistory(t *testing.T) {
	t.Run("clamps limit", func(t *testing.T) {
		orders := new(MockOrderStore)
		history := new(MockHistory)
		domain := newTestDomain(orders, history, nil)

		orders.On("GetByID", mock.Anything, int64(1)).Return(&model.Order{ID: 1}, nil)
		history.On("List", mock.Anything, int64(1), defaultHistoryLimit).Return([]*model.StateHistory{}, nil).Once()
		history.On("List", mock.Anything, int64(1), maxHistoryLimit).Return([]*model.StateHistory{}, nil).Once()

		_, err := domain.ListHistory(context.Background(), 1, 0)
		require.NoError(t, err)
		_, err = domain.ListHistory(context.Background(), 1, 10000)
		require.NoError(t, err)
		history.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		orders := new(MockOrderStore)
		domain := newTestDomain(orders, new(MockHistory), nil)

		orders.On("GetByID", mock.Anything, int64(1)).Return(nil, nil)

		_, err := domain.ListHistory(context.Background(), 1, 10)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

type outcomeRecorder struct {
	outcomes []string
}

func (r *outcomeRecorder) RecordTransition(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func TestOrderDomain_RecordsOutcomes(t *testing.T) {
	orders := new(MockOrderStore)
	history := new(MockHistory)
	recorder := &outcomeRecorder{}
	domain := NewOrderDomain(orders, history, nil, zap.NewNop(), WithRecorder(recorder))

	orders.On("GetByID", mock.Anything, int64(1)).Return(&model.Order{ID: 1, State: model.StateCreated, MaxStateReached: model.StateCreated}, nil)
	orders.On("GetByID", mock.Anything, int64(2)).Return(&model.Order{ID: 2, State: model.StateProcessing}, nil)
	orders.On("GetByID", mock.Anything, int64(3)).Return(&model.Order{ID: 3, State: model.StateQuoted}, nil)
	orders.On("SetState", mock.Anything, mock.Anything).Return(nil, nil)

	ctx := context.Background()
	_, err := domain.TransitionState(ctx, &TransitionInput{OrderID: 1, State: model.StateReceived})
	require.NoError(t, err)
	_, err = domain.TransitionState(ctx, &TransitionInput{OrderID: 3, State: model.StateQuoted})
	require.NoError(t, err)
	_, err = domain.TransitionState(ctx, &TransitionInput{OrderID: 2, State: model.StateCancelled})
	require.Error(t, err)

	assert.Equal(t, []string{OutcomeApplied, OutcomeNoOp, OutcomeRejected}, recorder.outcomes)
}
