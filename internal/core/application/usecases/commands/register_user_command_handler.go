package commands

import (
	"context"
	"log/slog"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/ports"
)

// RegisterUserCommandHandler creates accounts.
//
// Steps: validate the account, hash the password, check phone and email
// uniqueness, store the optional profile image, persist. A failure after
// the image was stored deletes it again.
type RegisterUserCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
	storage    ports.ImageStorage
	logger     *slog.Logger
}

// NewRegisterUserCommandHandler creates a handler for registrations.
func NewRegisterUserCommandHandler(
	uowFactory UserUoWFactory,
	hasher ports.PasswordHasher,
	storage ports.ImageStorage,
	logger *slog.Logger,
) RegisterUserCommandHandler {
	return RegisterUserCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		storage:    storage,
		logger:     loggerOrDefault(logger),
	}
}

// Handle registers the account. Duplicate phone or email is a Conflict error.
func (h RegisterUserCommandHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return nil, err
	}

	account, err := user.NewUser(kernel.NewUUID(), cmd.Name(), cmd.Phone(), cmd.Email(), hash, cmd.Address(), time.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	if err = ensureContactAvailable(ctx, userRepo, account.Phone(), account.Email(), kernel.UUID{}); err != nil {
		return nil, err
	}

	if cmd.Image() != nil {
		ref, storeErr := h.storage.Store(ctx, ports.ProfileImage, *cmd.Image())
		if storeErr != nil {
			return nil, storeErr
		}
		account.SetProfileImage(ref, account.CreatedAt())
	}

	if err = userRepo.Add(ctx, account); err != nil {
		discardImage(ctx, h.storage, h.logger, account.ProfileImage())
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		discardImage(ctx, h.storage, h.logger, account.ProfileImage())
		return nil, err
	}

	return account, nil
}
