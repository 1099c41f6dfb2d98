package shared

import "context"

// ChangeHandler consumes change events
type ChangeHandler interface {
	// Handle processes a single change event. Delivery is at-least-once, so
	// handlers must be idempotent.
	Handle(ctx context.Context, event ChangeEvent) error
	// EntityTypes returns the entity types this handler is interested in.
	// An empty slice means the handler receives all events.
	EntityTypes() []string
}

// ChangePublisher publishes change events
type ChangePublisher interface {
	// Publish publishes one or more change events. Publishing is
	// fire-and-forget: delivery to handlers happens asynchronously.
	Publish(ctx context.Context, events ...ChangeEvent) error
}

// ChangeSubscriber subscribes handlers to change events
type ChangeSubscriber interface {
	// Subscribe registers a handler for specific entity types.
	// If no entity types are provided, the handler's own EntityTypes are used.
	Subscribe(handler ChangeHandler, entityTypes ...string)
	// Unsubscribe removes a handler from the subscription list
	Unsubscribe(handler ChangeHandler)
}

// ChangeBus combines publisher and subscriber capabilities
type ChangeBus interface {
	ChangePublisher
	ChangeSubscriber
	// Start starts background delivery
	Start(ctx context.Context) error
	// Stop drains in-flight deliveries and stops the bus
	Stop(ctx context.Context) error
}
