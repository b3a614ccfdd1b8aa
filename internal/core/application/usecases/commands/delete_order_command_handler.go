package commands

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
)

// DeleteOrderCommandHandler marks orders as deleted. The row and its package
// image stay in place for auditing; reads no longer return the order.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewDeleteOrderCommandHandler creates a handler for order deletion.
func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{uowFactory: uowFactory}
}

// Handle soft-deletes the order.
func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := services.RequireAdmin(cmd.Actor(), "delete orders"); err != nil {
		return err
	}

	_, err := mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.MarkDeleted(time.Now())
	})
	return err
}
