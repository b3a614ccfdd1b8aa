package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"
)

var (
	ErrAssignDeliveryCommandIsNotConstructed = errors.New(
		"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
	)
)

// AssignDeliveryCommand asks to hand an order to a delivery user for a shipping fee.
//
// Example:
//
//	fee, err := kernel.ParseMoney(req.ShippingFee)
//	if err != nil {
//	    return err // 400
//	}
//	cmd, err := NewAssignDeliveryCommand(actor, orderID, deliveryUserID, fee)
type AssignDeliveryCommand struct { //nolint:recvcheck //using for validation
	actor          services.Actor
	orderID        kernel.UUID
	deliveryUserID kernel.UUID
	fee            kernel.Money

	guard guard.ConstructorGuard
}

// NewAssignDeliveryCommand validates the identifiers. The fee is already non-negative by construction.
func NewAssignDeliveryCommand(
	actor services.Actor,
	orderID kernel.UUID,
	deliveryUserID kernel.UUID,
	fee kernel.Money,
) (AssignDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate(), deliveryUserID.Validate()); err != nil {
		return AssignDeliveryCommand{}, err
	}

	return AssignDeliveryCommand{
		actor:          actor,
		orderID:        orderID,
		deliveryUserID: deliveryUserID,
		fee:            fee,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

func (c AssignDeliveryCommand) Actor() services.Actor       { return c.actor }
func (c AssignDeliveryCommand) OrderID() kernel.UUID        { return c.orderID }
func (c AssignDeliveryCommand) DeliveryUserID() kernel.UUID { return c.deliveryUserID }
func (c AssignDeliveryCommand) Fee() kernel.Money           { return c.fee }
