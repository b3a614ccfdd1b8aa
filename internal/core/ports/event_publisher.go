package ports

import (
	"context"

	"shipping/internal/core/domain/model/order"
)

// EventPublisher delivers committed domain events to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.DomainEvent) error
}
