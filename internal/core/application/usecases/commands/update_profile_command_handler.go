package commands

import (
	"context"
	"log/slog"
	"time"

	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
)

// UpdateProfileCommandHandler applies profile edits.
//
// A replaced profile image is deleted after the commit; a newly stored image
// is deleted again when the update fails.
type UpdateProfileCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
	storage    ports.ImageStorage
	logger     *slog.Logger
}

// NewUpdateProfileCommandHandler creates a handler for profile edits.
func NewUpdateProfileCommandHandler(
	uowFactory UserUoWFactory,
	hasher ports.PasswordHasher,
	storage ports.ImageStorage,
	logger *slog.Logger,
) UpdateProfileCommandHandler {
	return UpdateProfileCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		storage:    storage,
		logger:     loggerOrDefault(logger),
	}
}

// Handle updates the account and returns its new state.
func (h UpdateProfileCommandHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := services.CanAccessAccount(cmd.Actor(), cmd.UserID()); err != nil {
		return nil, err
	}

	changes := cmd.Changes()
	var hash string
	if changes.Password != nil {
		var err error
		if hash, err = h.hasher.Hash(*changes.Password); err != nil {
			return nil, err
		}
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

	now := time.Now()
	if err = applyProfileChanges(account, changes, hash, now); err != nil {
		return nil, err
	}

	if err = ensureContactAvailable(ctx, userRepo, account.Phone(), account.Email(), account.ID()); err != nil {
		return nil, err
	}

	var previous, stored string
	if changes.Image != nil {
		if stored, err = h.storage.Store(ctx, ports.ProfileImage, *changes.Image); err != nil {
			return nil, err
		}
		previous = account.SetProfileImage(stored, now)
	}

	if err = userRepo.Update(ctx, account); err != nil {
		discardImage(ctx, h.storage, h.logger, stored)
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		discardImage(ctx, h.storage, h.logger, stored)
		return nil, err
	}

	discardImage(ctx, h.storage, h.logger, previous)
	return account, nil
}

func applyProfileChanges(account *user.User, changes ProfileChanges, hash string, now time.Time) error {
	name, phone, email, address := account.Name(), account.Phone(), account.Email(), account.Address()
	if changes.Name != nil {
		name = *changes.Name
	}
	if changes.Phone != nil {
		phone = *changes.Phone
	}
	if changes.Email != nil {
		email = *changes.Email
	}
	if changes.Address != nil {
		address = *changes.Address
	}

	if err := account.UpdateProfile(name, phone, email, address, now); err != nil {
		return err
	}
	if hash != "" {
		return account.SetPasswordHash(hash, now)
	}
	return nil
}
