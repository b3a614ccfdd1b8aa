package ports

import (
	"context"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Soft-deleted orders are invisible to every method.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// A duplicate order number is reported as a Conflict error.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The write is conditional on the version the order was loaded with;
	// losing against a concurrent writer yields a VersionConflict error.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an ObjectNotFound error for unknown or deleted orders.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
