package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/guard"
)

var (
	ErrUpdateProfileCommandIsNotConstructed = errors.New(
		"UpdateProfileCommand must be created via NewUpdateProfileCommand constructor",
	)
)

// ProfileChanges lists the fields to replace. Nil means "keep the current value";
// an empty Email clears the address.
type ProfileChanges struct {
	Name     *string
	Phone    *kernel.Phone
	Email    *string
	Address  *string
	Password *string
	Image    *ports.Upload
}

// UpdateProfileCommand edits an account. Users edit themselves, admins anyone.
type UpdateProfileCommand struct { //nolint:recvcheck //using for validation
	actor   services.Actor
	userID  kernel.UUID
	changes ProfileChanges

	guard guard.ConstructorGuard
}

// NewUpdateProfileCommand validates the identifiers, a new phone and a new password.
func NewUpdateProfileCommand(actor services.Actor, userID kernel.UUID, changes ProfileChanges) (UpdateProfileCommand, error) {
	var phoneErr, passwordErr error
	if changes.Phone != nil {
		phoneErr = changes.Phone.Validate()
	}
	if changes.Password != nil {
		passwordErr = validatePassword(*changes.Password)
	}

	if err := errors.Join(actor.Validate(), userID.Validate(), phoneErr, passwordErr); err != nil {
		return UpdateProfileCommand{}, err
	}

	return UpdateProfileCommand{actor: actor, userID: userID, changes: changes, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateProfileCommand) Validate() error {
	return c.guard.Validate(ErrUpdateProfileCommandIsNotConstructed)
}

func (c UpdateProfileCommand) Actor() services.Actor   { return c.actor }
func (c UpdateProfileCommand) UserID() kernel.UUID     { return c.userID }
func (c UpdateProfileCommand) Changes() ProfileChanges { return c.changes }
