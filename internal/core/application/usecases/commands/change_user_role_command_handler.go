package commands

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/domain/services"
)

// ChangeUserRoleCommandHandler updates account roles.
// The new role applies to tokens issued after the change.
type ChangeUserRoleCommandHandler struct {
	uowFactory UserUoWFactory
}

// NewChangeUserRoleCommandHandler creates a handler for role changes.
func NewChangeUserRoleCommandHandler(uowFactory UserUoWFactory) ChangeUserRoleCommandHandler {
	return ChangeUserRoleCommandHandler{uowFactory: uowFactory}
}

// Handle changes the role.
func (h ChangeUserRoleCommandHandler) Handle(ctx context.Context, cmd ChangeUserRoleCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := services.RequireAdmin(cmd.Actor(), "change user roles"); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	account, err := userRepo.Get(ctx, cmd.UserID())
	if err != nil {
		return nil, err
	}

	if err = account.ChangeRole(cmd.Role(), time.Now()); err != nil {
		return nil, err
	}

	if err = userRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return account, nil
}
