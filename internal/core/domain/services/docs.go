// Package services holds domain services that need more than one aggregate
// or the identity of the caller.
//
// The package includes:
//   - OrderLifecycle: decides whether an actor may create, view or move an order
//     and applies the transition
//   - Actor: the authenticated caller (id and role)
//   - account access helpers shared by user operations
package services
