package event

import (
	"sync"

	"github.com/datasync/backend/internal/domain/shared"
)

// HandlerRegistry manages change handler registrations keyed by entity type
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.ChangeHandler // entityType -> handlers
	wildcard []shared.ChangeHandler            // handlers for all entity types
}

// NewHandlerRegistry creates a new handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.ChangeHandler),
		wildcard: make([]shared.ChangeHandler, 0),
	}
}

// Register adds a handler for specific entity types.
// If no entity types are provided, the handler receives all events.
func (r *HandlerRegistry) Register(handler shared.ChangeHandler, entityTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(entityTypes) == 0 {
		r.wildcard = append(r.wildcard, handler)
		return
	}

	for _, entityType := range entityTypes {
		r.handlers[entityType] = append(r.handlers[entityType], handler)
	}
}

// Unregister removes a handler from all entity types
func (r *HandlerRegistry) Unregister(handler shared.ChangeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wildcard = removeHandler(r.wildcard, handler)

	for entityType, handlers := range r.handlers {
		r.handlers[entityType] = removeHandler(handlers, handler)
		if len(r.handlers[entityType]) == 0 {
			delete(r.handlers, entityType)
		}
	}
}

// GetHandlers returns the handlers for an entity type, wildcard handlers
// included
func (r *HandlerRegistry) GetHandlers(entityType string) []shared.ChangeHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeHandlers := r.handlers[entityType]
	result := make([]shared.ChangeHandler, 0, len(typeHandlers)+len(r.wildcard))
	result = append(result, typeHandlers...)
	result = append(result, r.wildcard...)

	return result
}

// removeHandler removes a handler from a slice of handlers
func removeHandler(handlers []shared.ChangeHandler, target shared.ChangeHandler) []shared.ChangeHandler {
	result := make([]shared.ChangeHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}
