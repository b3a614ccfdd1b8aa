// Package order provides the Order aggregate and its status state machine.
//
// The package includes:
//   - Order: the aggregate root holding contacts, package details, collection,
//     assignment and lifecycle timestamps
//   - Status: the canonical state machine pending -> submitted -> confirmed ->
//     delivered, with side exits to cancelled and returned
//   - Contact and Collection value objects
//   - domain events raised on creation, status change and deletion
//
// Key business rules:
//   - an order is a collection exactly when it carries a positive collection price
//   - returned orders always carry delivery notes
//   - the delivery date is recorded once, on the first delivery
//   - mutators validate fully before writing, a failure never leaves a partial update
//
// Authorization is not decided here; see services.OrderLifecycle.
package order
