package event

import (
	"context"
	"sync"

	"github.com/datasync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryChangeBus implements ChangeBus with in-memory pub/sub. Delivery is
// asynchronous relative to the publisher: Publish returns once the events are
// handed off to a delivery goroutine. Handler errors are logged and never
// propagate to the publisher.
type InMemoryChangeBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger

	// mu orders the running check and the WaitGroup Add in Publish against
	// Stop, so no delivery can be added after Stop has begun waiting
	mu      sync.RWMutex
	running bool
	wg      sync.WaitGroup
}

// NewInMemoryChangeBus creates a new in-memory change bus
func NewInMemoryChangeBus(logger *zap.Logger) *InMemoryChangeBus {
	return &InMemoryChangeBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish hands events off for asynchronous delivery to all registered
// handlers. Events published after Stop are dropped with a warning.
func (b *InMemoryChangeBus) Publish(ctx context.Context, events ...shared.ChangeEvent) error {
	for _, ev := range events {
		b.mu.RLock()
		if !b.running {
			b.mu.RUnlock()
			b.logger.Warn("change bus not running, dropping event",
				zap.String("entity_type", ev.EntityType),
				zap.String("operation", string(ev.Operation)),
			)
			continue
		}
		b.wg.Add(1)
		b.mu.RUnlock()

		go func(ev shared.ChangeEvent) {
			defer b.wg.Done()
			b.deliver(ev)
		}(ev)
	}
	return nil
}

// Subscribe registers a handler for specific entity types
func (b *InMemoryChangeBus) Subscribe(handler shared.ChangeHandler, entityTypes ...string) {
	if len(entityTypes) == 0 {
		entityTypes = handler.EntityTypes()
	}
	b.registry.Register(handler, entityTypes...)
	b.logger.Debug("change handler subscribed",
		zap.Strings("entity_types", entityTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryChangeBus) Unsubscribe(handler shared.ChangeHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("change handler unsubscribed")
}

// Start starts the bus
func (b *InMemoryChangeBus) Start(ctx context.Context) error {
	b.mu.Lock()
	b.running = true
	b.mu.Unlock()
	b.logger.Info("change bus started")
	return nil
}

// Stop drains in-flight deliveries and stops the bus
func (b *InMemoryChangeBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()
	b.wg.Wait()
	b.logger.Info("change bus stopped")
	return nil
}

// deliver dispatches one event to every matching handler
func (b *InMemoryChangeBus) deliver(ev shared.ChangeEvent) {
	for _, handler := range b.registry.GetHandlers(ev.EntityType) {
		if err := b.dispatchToHandler(handler, ev); err != nil {
			// Log and continue with the remaining handlers
			b.logger.Error("handler failed to process change event",
				zap.String("entity_type", ev.EntityType),
				zap.Int64("entity_id", ev.EntityID),
				zap.String("operation", string(ev.Operation)),
				zap.Error(err),
			)
		}
	}
}

// dispatchToHandler safely dispatches an event to a handler
func (b *InMemoryChangeBus) dispatchToHandler(handler shared.ChangeHandler, ev shared.ChangeEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("change handler panicked",
				zap.String("entity_type", ev.EntityType),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(context.Background(), ev)
}

// Ensure InMemoryChangeBus implements ChangeBus
var _ shared.ChangeBus = (*InMemoryChangeBus)(nil)
