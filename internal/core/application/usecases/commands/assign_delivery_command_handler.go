package commands

import (
	"context"
	"errors"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/errs"
)

// AssignDeliveryCommandHandler binds a delivery user and a fee to an order.
// The order and the candidate user are read in the same transaction that
// writes the order, so the role check and the assignment see one snapshot.
type AssignDeliveryCommandHandler struct {
	uowFactory UoWFactory
	lifecycle  services.OrderLifecycle
}

// NewAssignDeliveryCommandHandler creates a handler for delivery assignment.
func NewAssignDeliveryCommandHandler(uowFactory UoWFactory, lifecycle services.OrderLifecycle) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
	}
}

// Handle runs the assignment.
//
// Errors:
//   - Forbidden when the actor is not an admin
//   - ObjectNotFound for an unknown order or delivery user
//   - ValueIsInvalid when the user is not a delivery user or the order cannot be assigned
//   - VersionConflict when the order changed concurrently
func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := services.RequireAdmin(cmd.Actor(), "assign orders"); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	target, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	deliveryUser, err := uow.UserRepository().Get(ctx, cmd.DeliveryUserID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewObjectNotFoundErrorWithCause("delivery user", cmd.DeliveryUserID(), err)
	}
	if err != nil {
		return nil, err
	}

	if err = h.lifecycle.Assign(cmd.Actor(), target, deliveryUser, cmd.Fee()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return target, nil
}
