package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"
)

var (
	ErrDeleteUserCommandIsNotConstructed = errors.New(
		"DeleteUserCommand must be created via NewDeleteUserCommand constructor",
	)
)

// DeleteUserCommand removes an account. Admin only, and never the caller's own account.
type DeleteUserCommand struct { //nolint:recvcheck //using for validation
	actor  services.Actor
	userID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteUserCommand validates the identifiers.
func NewDeleteUserCommand(actor services.Actor, userID kernel.UUID) (DeleteUserCommand, error) {
	if err := errors.Join(actor.Validate(), userID.Validate()); err != nil {
		return DeleteUserCommand{}, err
	}
	return DeleteUserCommand{actor: actor, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteUserCommand) Validate() error {
	return c.guard.Validate(ErrDeleteUserCommandIsNotConstructed)
}

func (c DeleteUserCommand) Actor() services.Actor { return c.actor }
func (c DeleteUserCommand) UserID() kernel.UUID   { return c.userID }
