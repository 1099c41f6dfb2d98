package shared

import (
	"time"

	"github.com/google/uuid"
)

// Operation identifies the kind of mutation a change event describes
type Operation string

const (
	OperationCreate Operation = "CREATE"
	OperationUpdate Operation = "UPDATE"
	OperationDelete Operation = "DELETE"
)

// IsValid checks if the operation is one of the known values
func (o Operation) IsValid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// ChangeEvent is a notification that a primary entity was created, updated or
// deleted. Events are transient: they exist only on the bus and are never
// persisted.
type ChangeEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	EntityType string    `json:"entity_type"`
	EntityID   int64     `json:"entity_id"`
	Operation  Operation `json:"operation"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewChangeEvent creates a change event stamped with a fresh ID and "now".
// For DELETE the payload carries the last-known state of the entity.
func NewChangeEvent(entityType string, entityID int64, op Operation, payload any) ChangeEvent {
	return ChangeEvent{
		EventID:    uuid.New(),
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  op,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
}
