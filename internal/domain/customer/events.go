package customer

import "github.com/datasync/backend/internal/domain/shared"

// NewCreatedEvent builds the change event for a newly created customer
func NewCreatedEvent(c *Customer) shared.ChangeEvent {
	return shared.NewChangeEvent(EntityType, c.ID, shared.OperationCreate, *c)
}

// NewUpdatedEvent builds the change event for an updated customer
func NewUpdatedEvent(c *Customer) shared.ChangeEvent {
	return shared.NewChangeEvent(EntityType, c.ID, shared.OperationUpdate, *c)
}

// NewDeletedEvent builds the change event for a deleted customer. The payload
// carries the last-known state of the entity.
func NewDeletedEvent(c *Customer) shared.ChangeEvent {
	return shared.NewChangeEvent(EntityType, c.ID, shared.OperationDelete, *c)
}
