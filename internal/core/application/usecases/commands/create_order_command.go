package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to create a new shipping order.
// Package details are validated by the Order aggregate; the command checks
// identity and contact data up front.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(actor, kernel.NewUUID(), sender, receiver,
//	    "12 Nile St", "documents", 1.5, "", order.NoCollection(), nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor       services.Actor
	orderID     kernel.UUID
	sender      order.Contact
	receiver    order.Contact
	address     string
	packageType string
	weight      float64
	notes       string
	collection  order.Collection
	image       *ports.Upload

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order. image may be nil.
func NewCreateOrderCommand(
	actor services.Actor,
	orderID kernel.UUID,
	sender order.Contact,
	receiver order.Contact,
	address string,
	packageType string,
	weight float64,
	notes string,
	collection order.Collection,
	image *ports.Upload,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		address:     address,
		packageType: packageType,
		weight:      weight,
		notes:       notes,
		collection:  collection,
		image:       image,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(actor),
		cmd.setOrderID(orderID),
		cmd.setContacts(sender, receiver),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() services.Actor        { return c.actor }
func (c CreateOrderCommand) OrderID() kernel.UUID         { return c.orderID }
func (c CreateOrderCommand) Sender() order.Contact        { return c.sender }
func (c CreateOrderCommand) Receiver() order.Contact      { return c.receiver }
func (c CreateOrderCommand) Address() string              { return c.address }
func (c CreateOrderCommand) PackageType() string          { return c.packageType }
func (c CreateOrderCommand) Weight() float64              { return c.weight }
func (c CreateOrderCommand) Notes() string                { return c.notes }
func (c CreateOrderCommand) Collection() order.Collection { return c.collection }

// Image returns the optional package photo.
func (c CreateOrderCommand) Image() *ports.Upload { return c.image }

func (c *CreateOrderCommand) setActor(actor services.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setContacts(sender, receiver order.Contact) error {
	if err := errors.Join(sender.Validate(), receiver.Validate()); err != nil {
		return err
	}
	c.sender = sender
	c.receiver = receiver
	return nil
}
