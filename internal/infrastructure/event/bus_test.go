package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/datasync/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingHandler collects delivered events
type recordingHandler struct {
	mu          sync.Mutex
	entityTypes []string
	events      []shared.ChangeEvent
	err         error
	panics      bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.ChangeEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EntityTypes() []string {
	return h.entityTypes
}

func (h *recordingHandler) received() []shared.ChangeEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.ChangeEvent, len(h.events))
	copy(out, h.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestBusDeliversToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryChangeBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer func() { _ = bus.Stop(context.Background()) }()

	handler := &recordingHandler{entityTypes: []string{"customer"}}
	bus.Subscribe(handler)

	ev := shared.NewChangeEvent("customer", 1, shared.OperationCreate, nil)
	require.NoError(t, bus.Publish(context.Background(), ev))

	waitFor(t, func() bool { return len(handler.received()) == 1 })
	assert.Equal(t, ev.EventID, handler.received()[0].EventID)
}

func TestBusRoutesByEntityType(t *testing.T) {
	bus := NewInMemoryChangeBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer func() { _ = bus.Stop(context.Background()) }()

	customers := &recordingHandler{entityTypes: []string{"customer"}}
	orders := &recordingHandler{entityTypes: []string{"order"}}
	bus.Subscribe(customers)
	bus.Subscribe(orders)

	require.NoError(t, bus.Publish(context.Background(),
		shared.NewChangeEvent("customer", 1, shared.OperationUpdate, nil)))

	waitFor(t, func() bool { return len(customers.received()) == 1 })
	assert.Empty(t, orders.received())
}

func TestBusWildcardSubscription(t *testing.T) {
	bus := NewInMemoryChangeBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer func() { _ = bus.Stop(context.Background()) }()

	all := &recordingHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		shared.NewChangeEvent("customer", 1, shared.OperationCreate, nil),
		shared.NewChangeEvent("order", 2, shared.OperationDelete, nil)))

	waitFor(t, func() bool { return len(all.received()) == 2 })
}

func TestBusDropsEventsWhenStopped(t *testing.T) {
	bus := NewInMemoryChangeBus(zap.NewNop())

	handler := &recordingHandler{entityTypes: []string{"customer"}}
	bus.Subscribe(handler)

	// Never started: events are dropped, not queued
	require.NoError(t, bus.Publish(context.Background(),
		shared.NewChangeEvent("customer", 1, shared.OperationCreate, nil)))

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, handler.received())
}

func TestBusStopDrainsInFlightDeliveries(t *testing.T) {
	bus := NewInMemoryChangeBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))

	handler := &recordingHandler{entityTypes: []string{"customer"}}
	bus.Subscribe(handler)

	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(context.Background(),
			shared.NewChangeEvent("customer", int64(i), shared.OperationUpdate, nil)))
	}

	require.NoError(t, bus.Stop(context.Background()))
	assert.Len(t, handler.received(), 20)
}

func TestBusStopConcurrentWithPublish(t *testing.T) {
	bus := NewInMemoryChangeBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))

	handler := &recordingHandler{entityTypes: []string{"customer"}}
	bus.Subscribe(handler)

	// Publishers race Stop; every event is either delivered before Stop
	// returns or dropped, never half-admitted
	var publishers sync.WaitGroup
	for p := 0; p < 4; p++ {
		publishers.Add(1)
		go func() {
			defer publishers.Done()
			for i := 0; i < 50; i++ {
				_ = bus.Publish(context.Background(),
					shared.NewChangeEvent("customer", int64(i), shared.OperationUpdate, nil))
			}
		}()
	}

	require.NoError(t, bus.Stop(context.Background()))
	drained := len(handler.received())
	publishers.Wait()

	// Stop drained everything admitted before it; late publishes were dropped
	assert.Equal(t, drained, len(handler.received()))
	assert.LessOrEqual(t, drained, 200)
}

func TestBusSurvivesHandlerPanic(t *testing.T) {
	bus := NewInMemoryChangeBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer func() { _ = bus.Stop(context.Background()) }()

	bad := &recordingHandler{entityTypes: []string{"customer"}, panics: true}
	good := &recordingHandler{entityTypes: []string{"customer"}}
	bus.Subscribe(bad)
	bus.Subscribe(good)

	require.NoError(t, bus.Publish(context.Background(),
		shared.NewChangeEvent("customer", 1, shared.OperationDelete, nil)))

	waitFor(t, func() bool { return len(good.received()) == 1 })
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewInMemoryChangeBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer func() { _ = bus.Stop(context.Background()) }()

	handler := &recordingHandler{entityTypes: []string{"customer"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		shared.NewChangeEvent("customer", 1, shared.OperationCreate, nil)))

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, handler.received())
}
