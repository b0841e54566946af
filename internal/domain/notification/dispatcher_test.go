package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cargotrack/server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Test doubles ---

// memoryStore is an in-memory NotificationStorePort.
type memoryStore struct {
	mu    sync.Mutex
	items []*model.Notification
}

func (s *memoryStore) Create(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = int64(len(s.items) + 1)
	s.items = append(s.items, n)
	return nil
}

func (s *memoryStore) ExistsSince(ctx context.Context, key model.DedupKey, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.AudienceType == key.AudienceType && n.AudienceValue == key.AudienceValue &&
			n.OrderID != nil && *n.OrderID == key.OrderID && n.Title == key.Title &&
			!n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) List(ctx context.Context, filter *model.NotificationFilter) ([]*model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Notification
	for _, n := range s.items {
		if n.AudienceType == filter.AudienceType && n.AudienceValue == filter.AudienceValue {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *memoryStore) MarkRead(ctx context.Context, id int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id {
			n.Unread = false
			n.ReadAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) count(audienceType model.AudienceType, value, title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := 0
	for _, n := range s.items {
		if n.AudienceType == audienceType && n.AudienceValue == value && n.Title == title {
			c++
		}
	}
	return c
}

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationStore) ExistsSince(ctx context.Context, key model.DedupKey, since time.Time) (bool, error) {
	args := m.Called(ctx, key, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationStore) List(ctx context.Context, filter *model.NotificationFilter) ([]*model.Notification, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *MockNotificationStore) MarkRead(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

type countingRecorder struct {
	mu      sync.Mutex
	results map[string]int
}

func (r *countingRecorder) RecordNotification(rule, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string]int)
	}
	r.results[result]++
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestDispatcher(store *memoryStore, clock *fakeClock) *Dispatcher {
	return NewDispatcher(store, DefaultRules(DefaultRulesConfig()), zap.NewNop(), WithClock(clock.Now))
}

// --- Tests ---

func TestDispatcher_Dispatch(t *testing.T) {
	clientID := uuid.New()
	client := clientID.String()

	t.Run("assigned fans out to client venezuela and pagos", func(t *testing.T) {
		store := &memoryStore{}
		d := newTestDispatcher(store, &fakeClock{now: time.Now()})

		result := d.Dispatch(context.Background(), Transition{OrderID: 42, PreviousState: 2, NewState: 4, ClientID: clientID})

		require.Len(t, result.Created, 3)
		assert.Equal(t, 1, store.count(model.AudienceUser, client, TitleStatusChanged))
		assert.Equal(t, 1, store.count(model.AudienceRole, model.RoleVenezuela, TitleAssigned))
		assert.Equal(t, 1, store.count(model.AudienceRole, model.RolePagos, TitleToValidate))
		for _, n := range result.Created {
			assert.Equal(t, int64(42), *n.OrderID)
			assert.True(t, n.Unread)
		}
		assert.Equal(t, "Tu pedido #42 cambió a: Asignado Venezuela", result.Created[0].Description)
	})

	t.Run("received notifies china", func(t *testing.T) {
		store := &memoryStore{}
		d := newTestDispatcher(store, &fakeClock{now: time.Now()})

		result := d.Dispatch(context.Background(), Transition{OrderID: 1, NewState: model.StateReceived, ClientID: clientID})

		assert.Len(t, result.Created, 2)
		assert.Equal(t, 1, store.count(model.AudienceRole, model.RoleChina, TitleRequiresAttention))
	})

	t.Run("quoted skips generic client notification", func(t *testing.T) {
		store := &memoryStore{}
		d := newTestDispatcher(store, &fakeClock{now: time.Now()})

		d.Dispatch(context.Background(), Transition{OrderID: 3, NewState: model.StateQuoted, ClientID: clientID})

		assert.Equal(t, 0, store.count(model.AudienceUser, client, TitleStatusChanged))
		assert.Equal(t, 1, store.count(model.AudienceUser, client, TitleQuoteReady))
		assert.Equal(t, 1, store.count(model.AudienceRole, model.RoleChina, TitleForQuote))
	})

	t.Run("quote ready is deduplicated forever", func(t *testing.T) {
		store := &memoryStore{}
		clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		d := newTestDispatcher(store, clock)

		tr := Transition{OrderID: 3, NewState: model.StateQuoted, ClientID: clientID}
		d.Dispatch(context.Background(), tr)
		clock.now = clock.now.Add(30 * 24 * time.Hour)
		second := d.Dispatch(context.Background(), tr)

		assert.Equal(t, 1, store.count(model.AudienceUser, client, TitleQuoteReady))
		assert.Equal(t, 2, store.count(model.AudienceRole, model.RoleChina, TitleForQuote))
		assert.Equal(t, 1, second.Skipped)
	})

	t.Run("quote ready dedup is per order", func(t *testing.T) {
		store := &memoryStore{}
		d := newTestDispatcher(store, &fakeClock{now: time.Now()})

		d.Dispatch(context.Background(), Transition{OrderID: 3, NewState: model.StateQuoted, ClientID: clientID})
		d.Dispatch(context.Background(), Transition{OrderID: 4, NewState: model.StateQuoted, ClientID: clientID})

		assert.Equal(t, 2, store.count(model.AudienceUser, client, TitleQuoteReady))
	})

	t.Run("ready to pack honours the 12h window", func(t *testing.T) {
		store := &memoryStore{}
		clock := &fakeClock{now: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)}
		d := newTestDispatcher(store, clock)

		tr := Transition{OrderID: 5, NewState: model.StateProcessing, ClientID: clientID}
		d.Dispatch(context.Background(), tr)
		clock.now = clock.now.Add(11 * time.Hour)
		d.Dispatch(context.Background(), tr)
		assert.Equal(t, 1, store.count(model.AudienceRole, model.RoleChina, TitleReadyToPack))

		clock.now = clock.now.Add(2 * time.Hour)
		d.Dispatch(context.Background(), tr)
		assert.Equal(t, 2, store.count(model.AudienceRole, model.RoleChina, TitleReadyToPack))
		assert.Equal(t, 3, store.count(model.AudienceUser, client, TitleStatusChanged))
	})

	t.Run("no client means no user notifications", func(t *testing.T) {
		store := &memoryStore{}
		d := newTestDispatcher(store, &fakeClock{now: time.Now()})

		result := d.Dispatch(context.Background(), Transition{OrderID: 9, NewState: model.StateInTransit})

		assert.Empty(t, result.Created)
	})

	t.Run("insert failures are isolated", func(t *testing.T) {
		store := new(MockNotificationStore)
		recorder := &countingRecorder{}
		d := NewDispatcher(store, DefaultRules(DefaultRulesConfig()), zap.NewNop(), WithRecorder(recorder))

		store.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
			return n.AudienceValue == model.RoleVenezuela
		})).Return(errors.New("insert failed"))
		store.On("Create", mock.Anything, mock.Anything).Return(nil)

		result := d.Dispatch(context.Background(), Transition{OrderID: 42, NewState: model.StateAssigned, ClientID: clientID})

		assert.Len(t, result.Created, 2)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 2, recorder.results[ResultCreated])
		assert.Equal(t, 1, recorder.results[ResultFailed])
		store.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("dedup lookup failure skips insert", func(t *testing.T) {
		store := new(MockNotificationStore)
		d := NewDispatcher(store, DefaultRules(DefaultRulesConfig()), zap.NewNop())

		store.On("ExistsSince", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("timeout"))
		store.On("Create", mock.Anything, mock.Anything).Return(nil)

		result := d.Dispatch(context.Background(), Transition{OrderID: 5, NewState: model.StateProcessing, ClientID: clientID})

		assert.Len(t, result.Created, 1)
		assert.Equal(t, 1, result.Failed)
	})
}

func TestDedupPolicy_Since(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, DedupPolicy{Kind: DedupForever}.since(now).IsZero())
	assert.Equal(t, now.Add(-12*time.Hour), DedupPolicy{Kind: DedupWindow, Window: 12 * time.Hour}.since(now))
}
