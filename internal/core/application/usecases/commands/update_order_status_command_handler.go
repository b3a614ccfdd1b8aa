package commands

import (
	"context"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
)

// UpdateOrderStatusCommandHandler loads the order, lets the lifecycle apply the
// requested status and writes the result with a version check.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	lifecycle  services.OrderLifecycle
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	lifecycle services.OrderLifecycle,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
	}
}

// Handle applies the status change. Unknown orders are ObjectNotFound,
// wrong actors Forbidden, disallowed transitions ValueIsInvalid.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return h.lifecycle.Apply(cmd.Actor(), o, cmd.Status(), cmd.Notes())
	})
}
