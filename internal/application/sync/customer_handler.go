package sync

import (
	"context"

	appcustomer "github.com/datasync/backend/internal/application/customer"
	"github.com/datasync/backend/internal/domain/customer"
	"github.com/datasync/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerChangeHandler reacts to customer change events. Deletions evict the
// per-entity cache key; the list-level key is left alone, its invalidation
// belongs to the mutation path. Creates and updates are observed for logging
// only since the mutation path already refreshed the cache.
type CustomerChangeHandler struct {
	cache  shared.Cache[customer.Customer]
	logger *zap.Logger
}

// NewCustomerChangeHandler creates the handler with the entity cache to evict
func NewCustomerChangeHandler(cache shared.Cache[customer.Customer], logger *zap.Logger) *CustomerChangeHandler {
	return &CustomerChangeHandler{cache: cache, logger: logger}
}

var _ shared.ChangeHandler = (*CustomerChangeHandler)(nil)

// EntityTypes returns the entity types this handler subscribes to
func (h *CustomerChangeHandler) EntityTypes() []string {
	return []string{customer.EntityType}
}

// Handle processes one customer change event. Delivery is at-least-once;
// eviction is idempotent.
func (h *CustomerChangeHandler) Handle(ctx context.Context, event shared.ChangeEvent) error {
	switch event.Operation {
	case shared.OperationCreate:
		h.logger.Debug("customer created",
			zap.Int64("entity_id", event.EntityID),
			zap.String("event_id", event.EventID.String()))
	case shared.OperationUpdate:
		h.logger.Debug("customer updated",
			zap.Int64("entity_id", event.EntityID),
			zap.String("event_id", event.EventID.String()))
	case shared.OperationDelete:
		key := appcustomer.EntityCacheKey(event.EntityID)
		if err := h.cache.Delete(ctx, key); err != nil {
			return err
		}
		h.logger.Info("evicted cache entry for deleted customer",
			zap.String("key", key),
			zap.String("event_id", event.EventID.String()))
	default:
		h.logger.Warn("unknown change operation",
			zap.String("operation", string(event.Operation)),
			zap.String("event_id", event.EventID.String()))
	}
	return nil
}
