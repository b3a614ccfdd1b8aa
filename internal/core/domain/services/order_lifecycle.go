package services

import (
	"fmt"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/pkg/errs"
)

// OrderLifecycle is the single authority for who may move an order where.
//
// Every operation runs its checks in the same order:
//  1. role: may this kind of actor ever perform the operation
//  2. identity: for non-admins, is the actor the creator or the assignee
//  3. state: does the transition table allow it from the current status
//
// Only then is the order mutated. Role and identity failures are Forbidden,
// state failures and missing data are validation errors. Because the order
// aggregate validates before writing, a rejected call leaves it unchanged.
//
// Looking the order up (and answering NotFound for an unknown id) is the
// caller's job; the lifecycle only sees orders that exist.
//
// Example usage:
//
//	lifecycle := services.NewOrderLifecycle(time.Now)
//	if err := lifecycle.Deliver(actor, o); err != nil {
//	    return err
//	}
//	return uow.OrderRepository().Update(ctx, o)
type OrderLifecycle struct {
	now func() time.Time
}

// NewOrderLifecycle creates the engine. now supplies transition timestamps.
func NewOrderLifecycle(now func() time.Time) OrderLifecycle {
	if now == nil {
		now = time.Now
	}
	return OrderLifecycle{now: now}
}

// CanCreate rejects delivery users, who only handle orders placed by others.
func (l OrderLifecycle) CanCreate(actor Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.Role == user.RoleDelivery {
		return errs.NewForbiddenError("create orders as a delivery user")
	}
	return nil
}

// CanView allows admins, the creator and the assigned delivery user.
func (l OrderLifecycle) CanView(actor Actor, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return CanViewOrder(actor, o.Number(), o.CreatorID(), o.DeliveryUserID())
}

// CanViewOrder is CanView for read models that carry only the participants.
func CanViewOrder(actor Actor, number string, creatorID kernel.UUID, deliveryUserID *kernel.UUID) error {
	if actor.IsAdmin() || actor.Is(creatorID) || (deliveryUserID != nil && actor.Is(*deliveryUserID)) {
		return nil
	}
	return errs.NewForbiddenError(fmt.Sprintf("view order %s", number))
}

// Assign binds a delivery user and a shipping fee to the order.
//
// Rules:
//   - only admins assign
//   - deliveryUser must currently hold RoleDelivery
//   - the order must be pending, or submitted for a reassignment
func (l OrderLifecycle) Assign(actor Actor, o *order.Order, deliveryUser *user.User, fee kernel.Money) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := RequireAdmin(actor, "assign orders"); err != nil {
		return err
	}
	if err := deliveryUser.Validate(); err != nil {
		return err
	}
	if !deliveryUser.Role().IsDelivery() {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery user",
			fmt.Errorf("user %s has role %s, not delivery", deliveryUser.ID(), deliveryUser.Role()),
		)
	}
	return o.Assign(deliveryUser.ID(), fee, l.now())
}

// Confirm is the assigned delivery user accepting a submitted order.
func (l OrderLifecycle) Confirm(actor Actor, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if actor.Role != user.RoleDelivery {
		return errs.NewForbiddenError("confirm orders")
	}
	if err := l.requireAssignee(actor, o); err != nil {
		return err
	}
	return o.Confirm(l.now())
}

// Deliver is allowed to the assigned delivery user and to admins.
func (l OrderLifecycle) Deliver(actor Actor, o *order.Order) error {
	if err := l.requireAssigneeOrAdmin(actor, o, "mark orders delivered"); err != nil {
		return err
	}
	return o.Deliver(l.now())
}

// Return is allowed to the assigned delivery user and to admins; notes are mandatory.
func (l OrderLifecycle) Return(actor Actor, o *order.Order, notes string) error {
	if err := l.requireAssigneeOrAdmin(actor, o, "mark orders returned"); err != nil {
		return err
	}
	return o.Return(notes, l.now())
}

// Cancel is allowed to admins and to the creator while the order is not terminal.
func (l OrderLifecycle) Cancel(actor Actor, o *order.Order, reason string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !actor.IsAdmin() && !o.IsCreatedBy(actor.ID) {
		return errs.NewForbiddenError(fmt.Sprintf("cancel order %s", o.Number()))
	}
	return o.Cancel(reason, l.now())
}

// Override lets an admin set any canonical status.
func (l OrderLifecycle) Override(actor Actor, o *order.Order, status order.Status, notes string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := RequireAdmin(actor, "override order status"); err != nil {
		return err
	}
	return o.Override(status, notes, l.now())
}

// Apply dispatches a generic "set status to X" request to the matching guarded operation.
//
//	admin    -> Override (any canonical status)
//	delivery -> Confirm, Deliver or Return
//	user     -> Cancel
//
// Any other combination is Forbidden.
func (l OrderLifecycle) Apply(actor Actor, o *order.Order, status order.Status, notes string) error {
	if err := status.Validate(); err != nil {
		return err
	}

	switch actor.Role {
	case user.RoleAdmin:
		return l.Override(actor, o, status, notes)
	case user.RoleDelivery:
		switch status {
		case order.Confirmed:
			return l.Confirm(actor, o)
		case order.Delivered:
			return l.Deliver(actor, o)
		case order.Returned:
			return l.Return(actor, o, notes)
		default:
		}
	case user.RoleUser:
		if status == order.Cancelled {
			return l.Cancel(actor, o, notes)
		}
	default:
	}

	return errs.NewForbiddenError(fmt.Sprintf("set order status to %s as %s", status, actor.Role))
}

func (l OrderLifecycle) requireAssignee(actor Actor, o *order.Order) error {
	if !o.IsAssignedTo(actor.ID) {
		return errs.NewForbiddenError(fmt.Sprintf("update order %s assigned to another delivery user", o.Number()))
	}
	return nil
}

func (l OrderLifecycle) requireAssigneeOrAdmin(actor Actor, o *order.Order, action string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RoleDelivery:
		return l.requireAssignee(actor, o)
	default:
		return errs.NewForbiddenError(action)
	}
}
