package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"
)

var (
	ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
		"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
	)
)

// UpdateOrderStatusCommand is a generic "set status to X" request.
// Which transition it turns into depends on the actor; see services.OrderLifecycle.Apply.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	actor   services.Actor
	orderID kernel.UUID
	status  order.Status
	notes   string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand validates the identifiers and the requested status.
func NewUpdateOrderStatusCommand(
	actor services.Actor,
	orderID kernel.UUID,
	status order.Status,
	notes string,
) (UpdateOrderStatusCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		actor:   actor,
		orderID: orderID,
		status:  status,
		notes:   notes,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) Actor() services.Actor { return c.actor }
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID  { return c.orderID }
func (c UpdateOrderStatusCommand) Status() order.Status  { return c.status }
func (c UpdateOrderStatusCommand) Notes() string         { return c.notes }
