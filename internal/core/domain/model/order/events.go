package order

import (
	"time"

	"shipping/internal/core/domain/model/kernel"
)

// DomainEvent is something that happened to an order and is published after commit.
type DomainEvent interface {
	EventName() string
	AggregateID() kernel.UUID
	OccurredAt() time.Time
}

// CreatedEvent is raised once by NewOrder.
type CreatedEvent struct {
	OrderID     kernel.UUID
	OrderNumber string
	CreatorID   kernel.UUID
	At          time.Time
}

func (e CreatedEvent) EventName() string        { return "order.created" }
func (e CreatedEvent) AggregateID() kernel.UUID { return e.OrderID }
func (e CreatedEvent) OccurredAt() time.Time    { return e.At }

// StatusChangedEvent is raised on every effective status change.
// Same-status re-application does not raise one.
type StatusChangedEvent struct {
	OrderID        kernel.UUID
	OrderNumber    string
	From           Status
	To             Status
	DeliveryUserID *kernel.UUID
	At             time.Time
}

func (e StatusChangedEvent) EventName() string        { return "order.status_changed" }
func (e StatusChangedEvent) AggregateID() kernel.UUID { return e.OrderID }
func (e StatusChangedEvent) OccurredAt() time.Time    { return e.At }

// DeletedEvent is raised when an admin soft-deletes an order.
type DeletedEvent struct {
	OrderID     kernel.UUID
	OrderNumber string
	At          time.Time
}

func (e DeletedEvent) EventName() string        { return "order.deleted" }
func (e DeletedEvent) AggregateID() kernel.UUID { return e.OrderID }
func (e DeletedEvent) OccurredAt() time.Time    { return e.At }
