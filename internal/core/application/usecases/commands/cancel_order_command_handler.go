package commands

import (
	"context"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
)

// CancelOrderCommandHandler cancels non-terminal orders.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	lifecycle  services.OrderLifecycle
}

// NewCancelOrderCommandHandler creates a handler for cancellations.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, lifecycle services.OrderLifecycle) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
	}
}

// Handle cancels the order or reports why it cannot.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return mutateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return h.lifecycle.Cancel(cmd.Actor(), o, cmd.Reason())
	})
}
