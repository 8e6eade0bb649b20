package command

import (
	"time"

	"github.com/louisbranch/fractional/internal/services/ledger/domain/event"
)

// NewEvent builds an event by copying the shared envelope fields from a
// command. Callers supply the type, entity addressing, payload, and time.
func NewEvent(cmd Command, eventType event.Type, entityType, entityID string, payloadJSON []byte, now time.Time) event.Event {
	return event.Event{
		Type:          eventType,
		Timestamp:     now,
		ActorID:       cmd.ActorID,
		EntityType:    entityType,
		EntityID:      entityID,
		RequestID:     cmd.RequestID,
		InvocationID:  cmd.InvocationID,
		CorrelationID: cmd.CorrelationID,
		CausationID:   cmd.CausationID,
		PayloadJSON:   payloadJSON,
	}
}
