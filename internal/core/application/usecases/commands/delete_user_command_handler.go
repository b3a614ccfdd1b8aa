package commands

import (
	"context"
	"log/slog"

	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// DeleteUserCommandHandler deletes accounts and, best-effort, their profile image.
// Orders referencing the account keep the dangling id and read it as "unknown user".
type DeleteUserCommandHandler struct {
	uowFactory UserUoWFactory
	storage    ports.ImageStorage
	logger     *slog.Logger
}

// NewDeleteUserCommandHandler creates a handler for account deletion.
func NewDeleteUserCommandHandler(
	uowFactory UserUoWFactory,
	storage ports.ImageStorage,
	logger *slog.Logger,
) DeleteUserCommandHandler {
	return DeleteUserCommandHandler{uowFactory: uowFactory, storage: storage, logger: loggerOrDefault(logger)}
}

// Handle deletes the account.
func (h DeleteUserCommandHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.Actor().Is(cmd.UserID()) {
		return errs.NewForbiddenError("delete your own account")
	}
	if err := services.RequireAdmin(cmd.Actor(), "delete users"); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	account, err := userRepo.Get(ctx, cmd.UserID())
	if err != nil {
		return err
	}

	if err = userRepo.Delete(ctx, account.ID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	discardImage(ctx, h.storage, h.logger, account.ProfileImage())
	return nil
}
