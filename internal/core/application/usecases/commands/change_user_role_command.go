package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"
)

var (
	ErrChangeUserRoleCommandIsNotConstructed = errors.New(
		"ChangeUserRoleCommand must be created via NewChangeUserRoleCommand constructor",
	)
)

// ChangeUserRoleCommand sets the role of an account. Admin only.
// Orders already assigned to the account are not revalidated.
type ChangeUserRoleCommand struct { //nolint:recvcheck //using for validation
	actor  services.Actor
	userID kernel.UUID
	role   user.Role

	guard guard.ConstructorGuard
}

// NewChangeUserRoleCommand rejects roles outside the enumeration.
func NewChangeUserRoleCommand(actor services.Actor, userID kernel.UUID, role user.Role) (ChangeUserRoleCommand, error) {
	if err := errors.Join(actor.Validate(), userID.Validate(), role.Validate()); err != nil {
		return ChangeUserRoleCommand{}, err
	}
	return ChangeUserRoleCommand{actor: actor, userID: userID, role: role, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeUserRoleCommand) Validate() error {
	return c.guard.Validate(ErrChangeUserRoleCommandIsNotConstructed)
}

func (c ChangeUserRoleCommand) Actor() services.Actor { return c.actor }
func (c ChangeUserRoleCommand) UserID() kernel.UUID   { return c.userID }
func (c ChangeUserRoleCommand) Role() user.Role       { return c.role }
