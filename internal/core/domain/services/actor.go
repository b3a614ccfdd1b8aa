package services

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/pkg/errs"
)

// Actor is the authenticated caller of an operation: who they are and which role
// their credential carried.
type Actor struct {
	ID   kernel.UUID
	Role user.Role
}

// NewActor validates both parts of the identity.
func NewActor(id kernel.UUID, role user.Role) (Actor, error) {
	if err := errors.Join(id.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

// Validate rejects the zero Actor.
func (a Actor) Validate() error {
	return errors.Join(a.ID.Validate(), a.Role.Validate())
}

func (a Actor) IsAdmin() bool { return a.Role == user.RoleAdmin }

// Is reports whether the actor is the user with the given id.
func (a Actor) Is(id kernel.UUID) bool { return a.ID.IsEqual(id) }

// CanAccessAccount allows admins on every account and everybody else on their own.
func CanAccessAccount(actor Actor, userID kernel.UUID) error {
	if actor.IsAdmin() || actor.Is(userID) {
		return nil
	}
	return errs.NewForbiddenError("access another user's account")
}

// RequireAdmin is the role check for administrative operations.
func RequireAdmin(actor Actor, action string) error {
	if !actor.IsAdmin() {
		return errs.NewForbiddenError(action)
	}
	return nil
}
