package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"
)

var (
	ErrCancelOrderCommandIsNotConstructed = errors.New(
		"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
	)
)

// CancelOrderCommand cancels an order on behalf of its creator or an admin.
// The optional reason ends up in the delivery notes.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	actor   services.Actor
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand validates the identifiers.
func NewCancelOrderCommand(actor services.Actor, orderID kernel.UUID, reason string) (CancelOrderCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		actor:   actor,
		orderID: orderID,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) Actor() services.Actor { return c.actor }
func (c CancelOrderCommand) OrderID() kernel.UUID  { return c.orderID }
func (c CancelOrderCommand) Reason() string        { return c.reason }
