package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something an aggregate did that other parts of the system
// may react to after the change is committed.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// EventPublisher delivers events collected on aggregates. Delivery failures
// never undo the committed change.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHeader is embedded by concrete events and implements DomainEvent
type EventHeader struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"type"`
	At        time.Time `json:"occurred_at"`
	Aggregate struct {
		ID   uuid.UUID `json:"id"`
		Kind string    `json:"type"`
	} `json:"aggregate"`
	Tenant uuid.UUID `json:"tenant_id"`
}

// NewEventHeader stamps a new event of eventType raised by the given aggregate
func NewEventHeader(eventType, aggregateType string, aggregateID, tenantID uuid.UUID) EventHeader {
	h := EventHeader{
		ID:     uuid.New(),
		Kind:   eventType,
		At:     time.Now(),
		Tenant: tenantID,
	}
	h.Aggregate.ID = aggregateID
	h.Aggregate.Kind = aggregateType
	return h
}

func (h *EventHeader) EventID() uuid.UUID     { return h.ID }
func (h *EventHeader) EventType() string      { return h.Kind }
func (h *EventHeader) OccurredAt() time.Time  { return h.At }
func (h *EventHeader) AggregateID() uuid.UUID { return h.Aggregate.ID }
func (h *EventHeader) AggregateType() string  { return h.Aggregate.Kind }
func (h *EventHeader) TenantID() uuid.UUID    { return h.Tenant }
