package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"
)

var (
	ErrDeleteOrderCommandIsNotConstructed = errors.New(
		"DeleteOrderCommand must be created via NewDeleteOrderCommand constructor",
	)
)

// DeleteOrderCommand soft-deletes an order. Admin only.
type DeleteOrderCommand struct { //nolint:recvcheck //using for validation
	actor   services.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteOrderCommand validates the identifiers.
func NewDeleteOrderCommand(actor services.Actor, orderID kernel.UUID) (DeleteOrderCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return DeleteOrderCommand{}, err
	}

	return DeleteOrderCommand{
		actor:   actor,
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeleteOrderCommandIsNotConstructed)
}

func (c DeleteOrderCommand) Actor() services.Actor { return c.actor }
func (c DeleteOrderCommand) OrderID() kernel.UUID  { return c.orderID }
